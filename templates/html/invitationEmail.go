package templates

import (
	"fmt"
	"html"
)

// RenderInvitationEmail generates the HTML for the invitation notification
// email. All values are user-supplied and get HTML-escaped.
func RenderInvitationEmail(inviterName, activityName, location, when string) string {
	return fmt.Sprintf(`<!DOCTYPE html>
<html>
<head>
  <meta http-equiv="Content-Type" content="text/html; charset=utf-8">
  <meta name="viewport" content="width=device-width, initial-scale=1">
  <title>You're invited - HuddleUp</title>
  <style type="text/css">
    body { font-family: 'Segoe UI', Tahoma, Geneva, Verdana, sans-serif; margin: 0; padding: 0; background-color: #f4f5f7; }
    .container { max-width: 600px; margin: 0 auto; background-color: #ffffff; }
    .header { background: #2563eb; padding: 32px 30px; text-align: center; }
    .header h1 { color: #fff; margin: 0; font-size: 22px; font-weight: 700; }
    .content { padding: 32px 30px; color: #1f2937; }
    .detail-box { background: #f0f4ff; border: 1px solid #c7d2fe; border-radius: 8px; padding: 16px; margin: 16px 0; }
    .footer { padding: 20px 30px; color: #9ca3af; font-size: 12px; text-align: center; }
  </style>
</head>
<body>
  <div class="container">
    <div class="header"><h1>You're invited!</h1></div>
    <div class="content">
      <p><strong>%s</strong> invited you to join <strong>%s</strong>.</p>
      <div class="detail-box">
        <p>Where: %s</p>
        <p>When: %s</p>
      </div>
      <p>Open HuddleUp to accept or decline the invitation.</p>
    </div>
    <div class="footer">You received this email because someone invited you to an activity on HuddleUp.</div>
  </div>
</body>
</html>`,
		html.EscapeString(inviterName),
		html.EscapeString(activityName),
		html.EscapeString(location),
		html.EscapeString(when),
	)
}
