package gen

import (
	"bytes"
	"fmt"
	"sort"

	"gopkg.in/yaml.v3"
)

// Compose is the docker-compose.yml model of a scaffolded project.
// Map keys are emitted sorted by yaml.v3, so rendering is deterministic.
type Compose struct {
	Services map[string]ComposeService `yaml:"services"`
	Volumes  map[string]ComposeVolume  `yaml:"volumes,omitempty"`
}

// ComposeService describes a single compose service.
type ComposeService struct {
	Image       string                `yaml:"image,omitempty"`
	Build       *ComposeBuild         `yaml:"build,omitempty"`
	Restart     string                `yaml:"restart,omitempty"`
	Ports       []string              `yaml:"ports,omitempty"`
	Environment *ComposeEnvironment   `yaml:"environment,omitempty"`
	DependsOn   map[string]ComposeDep `yaml:"depends_on,omitempty"`
	Volumes     []string              `yaml:"volumes,omitempty"`
	Healthcheck *ComposeHealthcheck   `yaml:"healthcheck,omitempty"`
}

// ComposeBuild is the build context of a service.
type ComposeBuild struct {
	Context    string `yaml:"context"`
	Dockerfile string `yaml:"dockerfile,omitempty"`
}

// ComposeDep is a depends_on entry.
type ComposeDep struct {
	Condition string `yaml:"condition,omitempty"`
}

// ComposeHealthcheck is a service health check.
type ComposeHealthcheck struct {
	Test     []string `yaml:"test,flow"`
	Interval string   `yaml:"interval,omitempty"`
	Timeout  string   `yaml:"timeout,omitempty"`
	Retries  int      `yaml:"retries,omitempty"`
}

// ComposeVolume is a named volume.
type ComposeVolume struct {
	Driver string `yaml:"driver,omitempty"`
}

// ComposeEnvironment renders as a key: value mapping sorted by key.
type ComposeEnvironment struct {
	pairs []envPair
}

type envPair struct{ k, v string }

// Set adds or replaces a variable.
func (e *ComposeEnvironment) Set(key, value string) *ComposeEnvironment {
	for i, p := range e.pairs {
		if p.k == key {
			e.pairs[i].v = value
			return e
		}
	}
	e.pairs = append(e.pairs, envPair{key, value})
	return e
}

// Get returns the value of key.
func (e *ComposeEnvironment) Get(key string) (string, bool) {
	for _, p := range e.pairs {
		if p.k == key {
			return p.v, true
		}
	}
	return "", false
}

// MarshalYAML implements yaml.Marshaler.
func (e ComposeEnvironment) MarshalYAML() (any, error) {
	sorted := make([]envPair, len(e.pairs))
	copy(sorted, e.pairs)
	sort.Slice(sorted, func(i, j int) bool { return sorted[i].k < sorted[j].k })

	node := &yaml.Node{Kind: yaml.MappingNode, Tag: "!!map"}
	for _, p := range sorted {
		node.Content = append(node.Content,
			&yaml.Node{Kind: yaml.ScalarNode, Tag: "!!str", Value: p.k},
			&yaml.Node{Kind: yaml.ScalarNode, Tag: "!!str", Value: p.v},
		)
	}
	return node, nil
}

// Postgres connection defaults shared by the compose file and main.go.
const (
	postgresImage   = "postgres:16-alpine"
	postgresUser    = "postgres"
	postgresService = "db"
)

// NewCompose returns the compose model for p: the app built from the
// project Dockerfile and a postgres service it waits on.
func NewCompose(p *Project) *Compose {
	db := (&ComposeEnvironment{}).
		Set("POSTGRES_DB", p.Slug).
		Set("POSTGRES_USER", postgresUser).
		Set("POSTGRES_PASSWORD", postgresUser)
	app := (&ComposeEnvironment{}).
		Set("DATABASE_URL", p.DSN(postgresService)).
		Set("PORT", fmt.Sprint(p.Port))
	return &Compose{
		Services: map[string]ComposeService{
			"app": {
				Build:       &ComposeBuild{Context: "."},
				Restart:     "unless-stopped",
				Ports:       []string{fmt.Sprintf("%d:%d", p.Port, p.Port)},
				Environment: app,
				DependsOn: map[string]ComposeDep{
					postgresService: {Condition: "service_healthy"},
				},
			},
			postgresService: {
				Image:       postgresImage,
				Restart:     "unless-stopped",
				Ports:       []string{"5432:5432"},
				Environment: db,
				Volumes:     []string{"pgdata:/var/lib/postgresql/data"},
				Healthcheck: &ComposeHealthcheck{
					Test:     []string{"CMD-SHELL", fmt.Sprintf("pg_isready -U %s -d %s", postgresUser, p.Slug)},
					Interval: "5s",
					Timeout:  "5s",
					Retries:  12,
				},
			},
		},
		Volumes: map[string]ComposeVolume{"pgdata": {}},
	}
}

// Render marshals the model with two-space indentation.
func (c *Compose) Render() ([]byte, error) {
	var buf bytes.Buffer
	enc := yaml.NewEncoder(&buf)
	enc.SetIndent(2)
	if err := enc.Encode(c); err != nil {
		return nil, fmt.Errorf("encode compose: %w", err)
	}
	if err := enc.Close(); err != nil {
		return nil, fmt.Errorf("encode compose: %w", err)
	}
	return buf.Bytes(), nil
}
