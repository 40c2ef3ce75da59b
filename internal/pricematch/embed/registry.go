package embed

import "strings"

// Registry: упорядоченный набор провайдеров. Порядок регистрации = порядок
// запуска стратегий и порядок кандидатов в слитом ответе.
type Registry struct {
	providers []Provider
}

func NewRegistry(providers ...Provider) *Registry {
	r := &Registry{}
	for _, p := range providers {
		r.Register(p)
	}
	return r
}

func (r *Registry) Register(p Provider) {
	r.providers = append(r.providers, p)
}

// Names в порядке регистрации.
func (r *Registry) Names() []string {
	out := make([]string, len(r.providers))
	for i, p := range r.providers {
		out[i] = p.Name()
	}
	return out
}

// Selected: провайдер и ключ, с которым его вызывать.
type Selected struct {
	Provider   Provider
	Credential string
}

// Select оставляет провайдеров, для которых пришёл непустой ключ.
func (r *Registry) Select(credentials map[string]string) []Selected {
	var out []Selected
	for _, p := range r.providers {
		if c := strings.TrimSpace(credentials[p.Name()]); c != "" {
			out = append(out, Selected{Provider: p, Credential: c})
		}
	}
	return out
}
