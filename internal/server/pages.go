package server

import (
	"html/template"
	"net/http"
)

// Popup pages rendered at the end of the OAuth flow. Their only dynamic job
// is notifying the window that opened the popup. The postMessage target is
// pinned to the configured web origin, never "*", and the payload carries a
// connected/denied signal only — no token or profile data. The opener is
// expected to check event.origin against the backend origin before trusting
// the message.

type pageData struct {
	Title        string
	Heading      string
	Detail       string
	MessageType  string
	TargetOrigin string
}

var popupPage = template.Must(template.New("popup").Parse(`<!DOCTYPE html>
<html>
<head>
    <title>{{.Title}}</title>
    <style>
        body { font-family: -apple-system, BlinkMacSystemFont, "Segoe UI", Roboto, sans-serif;
               display: flex; align-items: center; justify-content: center; height: 100vh;
               margin: 0; background: #f5f5f5; }
        .container { text-align: center; background: white; padding: 2rem;
                     border-radius: 8px; box-shadow: 0 2px 4px rgba(0,0,0,0.1); }
        h1 { color: #1DB954; margin: 0 0 1rem 0; }
        p { color: #666; margin: 0; }
    </style>
</head>
<body>
    <div class="container">
        <h1>{{.Heading}}</h1>
        <p>{{.Detail}}</p>
        <p>You can close this window.</p>
    </div>
{{if .MessageType}}
    <script>
        if (window.opener) {
            window.opener.postMessage({type: {{.MessageType}}}, {{.TargetOrigin}});
        }
        setTimeout(function () { window.close(); }, 1500);
    </script>
{{end}}
</body>
</html>
`))

func renderPopup(w http.ResponseWriter, data pageData) {
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	w.WriteHeader(http.StatusOK)
	popupPage.Execute(w, data)
}

func connectedPage(w http.ResponseWriter, targetOrigin string) {
	renderPopup(w, pageData{
		Title:        "Spotify Connected",
		Heading:      "✓ Spotify Connected",
		Detail:       "Your Spotify account is linked.",
		MessageType:  "simrai-spotify-connected",
		TargetOrigin: targetOrigin,
	})
}

func deniedPage(w http.ResponseWriter, reason, targetOrigin string) {
	renderPopup(w, pageData{
		Title:        "Connection Denied",
		Heading:      "Connection Denied",
		Detail:       reason,
		MessageType:  "simrai-spotify-denied",
		TargetOrigin: targetOrigin,
	})
}

func securityErrorPage(w http.ResponseWriter, detail string) {
	renderPopup(w, pageData{
		Title:   "Security Error",
		Heading: "Security Error",
		Detail:  detail,
	})
}

func connectionErrorPage(w http.ResponseWriter, detail string) {
	renderPopup(w, pageData{
		Title:   "Connection Error",
		Heading: "Connection Error",
		Detail:  detail,
	})
}
