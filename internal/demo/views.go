package demo

import (
	"html/template"

	"github.com/vango-dev/vitrio/pkg/render"
	"github.com/vango-dev/vitrio/pkg/router"
)

var views = template.Must(template.New("demo").Parse(`
{{define "home"}}<main class="home">
  <h1>Vitrio</h1>
  <p>Server-rendered pages, plain forms, POST then redirect then GET.</p>
  <p id="count">Count: {{.Data.Count}}</p>
  <form method="post">
    <input type="hidden" name="_csrf" value="{{.CSRFToken}}">
    <button name="intent" value="inc">Increment</button>
    <button name="intent" value="reset">Reset</button>
  </form>
  <section id="quickstart">
    <h2>Quickstart</h2>
    <pre><code>vitrio serve --dev</code></pre>
  </section>
</main>{{end}}

{{define "reference"}}<main class="reference">
  <h1>Reference {{index .Data "version"}}</h1>
  <ul>
    <li>Routes are data: path, loader, action, render.</li>
    <li>GET runs the loaders parent first, then renders.</li>
    <li>POST runs one action and answers 303.</li>
  </ul>
</main>{{end}}

{{define "user"}}<main class="user"><h1>User {{index .Data "id"}}</h1></main>{{end}}

{{define "org"}}<main class="org"><h1>{{index .Data "org"}}</h1></main>{{end}}

{{define "repo"}}<main class="repo"><h1>{{index .Data "org"}}/{{index .Data "repo"}}</h1></main>{{end}}

{{define "notfound"}}<main class="not-found"><h1>Not Found</h1><p><a href="/">Home</a></p></main>{{end}}
`))

// page renders the named view with the route's props.
func page(name string) router.RenderFunc {
	return func(p router.Props) render.Component {
		return render.Template(views, name, p)
	}
}
