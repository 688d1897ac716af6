package handlers

import (
	"html/template"
	"strings"
)

var pageTemplate = template.Must(template.New("page").Parse(`<!doctype html>
<html lang="en">
<head>
<meta charset="utf-8">
<title>{{.Title}}</title>
</head>
<body data-portal="{{.Portal}}" data-view="{{.View}}"{{if .FullScreen}} data-fullscreen="true"{{end}}>
{{range .Flashes}}<p class="flash flash-{{.Level}}"><strong>{{.Title}}</strong> {{.Message}}</p>
{{end}}<main>
<h1>{{.Title}}</h1>
{{.Body}}
{{if .Caption}}<p class="caption">{{.Caption}}</p>{{end}}
</main>
{{if .ShowLogin}}<form method="post" action="/{{.Portal}}/login">
{{.CSRFField}}
<label>Username <input name="username" autocomplete="username" required></label>
<label>Password <input name="password" type="password" autocomplete="current-password" required></label>
<button type="submit">Sign in</button>
</form>
{{end}}{{range .Links}}<form method="post" action="/{{$.Portal}}/navigate">
{{$.CSRFField}}
<button type="submit" name="view" value="{{.}}">{{.}}</button>
</form>
{{end}}{{if not .ShowLogin}}<form method="post" action="/{{.Portal}}/logout">
{{.CSRFField}}
<button type="submit">{{if eq .Portal "general"}}Home{{else}}Sign out{{end}}</button>
</form>
{{end}}{{if .FullScreen}}<script>
document.addEventListener("click", function () {
  if (!document.fullscreenElement) { document.documentElement.requestFullscreen().catch(function () {}); }
}, { once: true });
document.addEventListener("keydown", function (e) {
  if (e.key === {{.ExitKey}} && document.fullscreenElement) { document.exitFullscreen(); }
});
</script>
{{end}}</body>
</html>
`))

type page struct {
	Portal     string
	View       string
	Title      string
	Body       template.HTML
	Caption    string
	Flashes    []Flash
	ShowLogin  bool
	Links      []string
	FullScreen bool
	ExitKey    string
	CSRFField  template.HTML
}

// browserKey maps a configured exit key to a KeyboardEvent.key value.
func browserKey(key string) string {
	switch strings.ToUpper(key) {
	case "", "ESC", "ESCAPE":
		return "Escape"
	case "F11":
		return "F11"
	}
	if len(key) == 1 {
		return key
	}
	return key[:1] + strings.ToLower(key[1:])
}
