package main

import (
	"html/template"
	"net/http"
	"sort"

	"github.com/rs/zerolog/log"

	"github.com/octet-stream/qwik/internal/ttlcache"
	"github.com/octet-stream/qwik/pkg/fns"
	"github.com/octet-stream/qwik/pkg/qwikfile"
	"github.com/octet-stream/qwik/runtime/server"
)

// devPageTmpl renders the index of the dev server: the environment the
// way a client sees it, with a live-reload hook in development.
var devPageTmpl = template.Must(template.New("devpage").Parse(`<!doctype html>
<html lang="en">
<head>
<meta charset="utf-8">
<title>{{.Name}}</title>
<script>{{.EnvScript}}</script>
</head>
<body>
<h1>{{.Name}}</h1>
<p>mode {{.Mode}}, served under {{.Base}}</p>
<h2>Public variables</h2>
{{if .Public}}<table>
<tr><th>name</th><th>value</th></tr>
{{range .Public}}<tr><td>{{.Name}}</td><td>{{.Value}}</td></tr>
{{end}}</table>
{{else}}<p>No PUBLIC_ variables are defined.</p>
{{end}}<p>This snapshot is also served at <a href="/__qwik/env.js">/__qwik/env.js</a> and <a href="/__qwik/env.json">/__qwik/env.json</a>.</p>
{{if .Dev}}<script>
var proto = location.protocol === "https:" ? "wss://" : "ws://";
new WebSocket(proto + location.host + "/__qwik/reload").onmessage = function () { location.reload(); };
</script>
{{end}}</body>
</html>
`))

type devPageData struct {
	Name      string
	Mode      string
	Base      string
	Dev       bool
	EnvScript template.JS
	Public    []server.EnvVar
}

// registerDevPage mounts the index page. The project file is re-read
// through a short-lived cache so edits to qwik.json show up without a
// restart and without a parse per request.
func registerDevPage(srv *server.Server, projectFile *ttlcache.Cache[*qwikfile.File]) {
	srv.HandleFunc(http.MethodGet, "/", func(w http.ResponseWriter, req *http.Request) {
		f, err := projectFile.Get()
		if err != nil {
			log.Warn().Err(err).Msg("unable to re-read project file")
		}
		name := "qwik app"
		if f != nil && f.Name != "" {
			name = f.Name
		}

		client := srv.Snapshot().ForClient()

		names := client.Names()
		sort.Strings(names)
		public := fns.Map(names, func(n string) server.EnvVar {
			return server.EnvVar{Name: n, Value: client.Public[n]}
		})

		w.Header().Set("Content-Type", "text/html; charset=utf-8")
		err = devPageTmpl.Execute(w, devPageData{
			Name:      name,
			Mode:      client.Mode,
			Base:      client.BaseURL,
			Dev:       client.Dev,
			EnvScript: template.JS(client.ClientScript()),
			Public:    public,
		})
		if err != nil {
			log.Error().Err(err).Msg("unable to render dev page")
		}
	})
}
