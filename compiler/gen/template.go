package gen

import (
	"bytes"
	"fmt"
	"strings"
	"text/template"

	"github.com/lithammer/dedent"
	"golang.org/x/text/cases"
	"golang.org/x/text/language"

	"github.com/syssam/scaffold/schema"
)

// Versions pinned in the scaffolded go.mod.
const (
	GinVersion = "v1.10.1"
	PQVersion  = "v1.12.3"
)

// EntryPoint is the line generated blocks are spliced in front of.
const EntryPoint = "func main()"

// HealthPath is the route registered by the project's main.go. No table
// may route under it.
const HealthPath = "/health"

// Project is the data passed to the project templates.
type Project struct {
	*Config
	// Name is the project name as given by the user.
	Name string
	// Slug is the normalized name used for the database and module.
	Slug string
	// Title is the display name used in log lines and the health route.
	Title string
}

// NewProject derives the template data for the project name.
func NewProject(c *Config, name string) (*Project, error) {
	slug := schema.TableName(name)
	if slug == "" {
		return nil, NewConfigError("Project", name, "project name has no alphanumeric characters")
	}
	if c == nil {
		c = DefaultConfig()
	}
	cc := *c
	if cc.Module == "" {
		cc.Module = slug
	}
	return &Project{
		Config: &cc,
		Name:   name,
		Slug:   slug,
		Title:  title(name),
	}, nil
}

// DSN returns the connection string for a postgres reachable at host.
func (p *Project) DSN(host string) string {
	return fmt.Sprintf("postgres://%s:%s@%s:5432/%s?sslmode=disable", postgresUser, postgresUser, host, p.Slug)
}

// title turns "my-cool_api" into "My Cool Api".
func title(name string) string {
	words := strings.FieldsFunc(name, func(r rune) bool {
		return r == '-' || r == '_' || r == ' ' || r == '.'
	})
	return cases.Title(language.English).String(strings.Join(words, " "))
}

var funcs = template.FuncMap{
	"quote": func(s string) string { return fmt.Sprintf("%q", s) },
}

var (
	gomodTmpl = template.Must(template.New("go.mod").Parse(dedent.Dedent(`
		module {{ .Module }}

		go {{ .GoVersion }}

		require (
			github.com/gin-gonic/gin ` + GinVersion + `
			github.com/lib/pq ` + PQVersion + `
		)
	`)[1:]))

	dockerfileTmpl = template.Must(template.New("Dockerfile").Parse(dedent.Dedent(`
		FROM golang:{{ .GoVersion }}-alpine AS build
		WORKDIR /src
		COPY go.mod go.sum* ./
		RUN go mod download
		COPY . .
		RUN CGO_ENABLED=0 go build -o /out/app .

		FROM alpine:3.20
		COPY --from=build /out/app /usr/local/bin/app
		EXPOSE {{ .Port }}
		ENTRYPOINT ["/usr/local/bin/app"]
	`)[1:]))

	mainTmpl = template.Must(template.New("main.go").Funcs(funcs).Parse(dedent.Dedent(`
		{{- with .Header }}// {{ . }}

		{{ end -}}
		package {{ .Package }}

		import (
			"database/sql"
			"log/slog"
			"net/http"
			"os"

			"github.com/gin-gonic/gin"
			_ "github.com/lib/pq"
		)

		// {{ .DB }} is the connection pool shared by the handlers.
		var {{ .DB }} *sql.DB

		func getenv(key, fallback string) string {
			if v, ok := os.LookupEnv(key); ok {
				return v
			}
			return fallback
		}

		func health(c *gin.Context) {
			if err := {{ .DB }}.PingContext(c.Request.Context()); err != nil {
				c.JSON(http.StatusServiceUnavailable, gin.H{"status": "unavailable"})
				return
			}
			c.JSON(http.StatusOK, gin.H{"status": "ok", "service": {{ quote .Title }}})
		}

		` + EntryPoint + ` {
			var err error
			{{ .DB }}, err = sql.Open("postgres", getenv("DATABASE_URL", {{ quote (.DSN "localhost") }}))
			if err != nil {
				slog.Error("open database", "error", err)
				os.Exit(1)
			}
			defer {{ .DB }}.Close()

			{{ .Router }} := gin.Default()
			{{ .Router }}.GET("` + HealthPath + `", health)

			addr := ":" + getenv("PORT", "{{ .Port }}")
			slog.Info({{ quote (printf "%s listening" .Title) }}, "addr", addr)
			if err := {{ .Router }}.Run(addr); err != nil {
				slog.Error("server stopped", "error", err)
				os.Exit(1)
			}
		}
	`)[1:]))
)

func execute(t *template.Template, p *Project) ([]byte, error) {
	var buf bytes.Buffer
	if err := t.Execute(&buf, p); err != nil {
		return nil, fmt.Errorf("execute template %q: %w", t.Name(), err)
	}
	return buf.Bytes(), nil
}
