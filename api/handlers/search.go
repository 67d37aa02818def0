package handlers

import (
	"encoding/json"
	"errors"
	"net/http"
	"sort"
	"strings"
	"unicode"

	"github.com/huddleup-app/huddleup-api/config"
	"github.com/huddleup-app/huddleup-api/models"
	"github.com/huddleup-app/huddleup-api/store"
)

// Search scores activities against a free-text query. It stands in for the
// external relevance service the web client calls; the ranking itself is a
// plain token-overlap match over the activity's visible fields.
type Search struct {
	ADB store.ActivityStore
}

// SearchActivitiesHandler returns the ids of the activities relevant to the
// query, most relevant first. The client may post its own activity list;
// when it does not, the current server snapshot is searched.
func (s Search) SearchActivitiesHandler(w http.ResponseWriter, r *http.Request) {
	var requestBody struct {
		Query      string            `json:"query"`
		Activities []models.Activity `json:"activities"`
	}

	if err := json.NewDecoder(r.Body).Decode(&requestBody); err != nil {
		config.ErrorStatus("failed to decode request body", http.StatusBadRequest, w, err)
		return
	}
	if strings.TrimSpace(requestBody.Query) == "" {
		config.ErrorStatus("query is required", http.StatusBadRequest, w, errors.New("empty query"))
		return
	}

	pool := requestBody.Activities
	if len(pool) == 0 {
		pool = s.ADB.Activities()
	}

	b, err := json.Marshal(models.SearchResponse{
		RelevantActivityIDs: rankActivities(requestBody.Query, pool),
	})
	if err != nil {
		config.ErrorStatus("failed to marshal response", http.StatusInternalServerError, w, err)
		return
	}
	w.WriteHeader(http.StatusOK)
	w.Write(b)
}

func rankActivities(query string, activities []models.Activity) []string {
	terms := tokenize(query)
	if len(terms) == 0 {
		return []string{}
	}

	type scored struct {
		id    string
		score int
	}
	matches := []scored{}
	for _, a := range activities {
		haystack := map[string]bool{}
		for _, field := range []string{a.Type, a.ActivityName, a.Location, a.CreatedAt} {
			for _, tok := range tokenize(field) {
				haystack[tok] = true
			}
		}
		score := 0
		for _, term := range terms {
			if haystack[term] {
				score++
			}
		}
		if score > 0 {
			matches = append(matches, scored{id: a.ID, score: score})
		}
	}

	// stable keeps creation order between equally relevant activities
	sort.SliceStable(matches, func(i, j int) bool { return matches[i].score > matches[j].score })

	ids := make([]string, 0, len(matches))
	for _, m := range matches {
		ids = append(ids, m.id)
	}
	return ids
}

func tokenize(s string) []string {
	return strings.FieldsFunc(strings.ToLower(s), func(r rune) bool {
		return !unicode.IsLetter(r) && !unicode.IsDigit(r)
	})
}
