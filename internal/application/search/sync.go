package search

import (
	"net/url"
	"sync"
	"time"
)

// Parámetros del estado navegable.
const (
	ParamQuery = "query"
	ParamPage  = "page"
)

// Sync mantiene el término de búsqueda y la URL compartible sincronizados.
// Cada actualización efectiva vuelve a la primera página y reemplaza la URL vía Replace.
type Sync struct {
	mu      sync.Mutex
	path    string
	params  url.Values
	replace func(string)
	deb     *Debouncer[string]
}

// NewSync parte de la URL actual (path + query string) y llama a replace con cada URL nueva.
func NewSync(current string, wait time.Duration, replace func(string), opts ...DebouncerOption[string]) (*Sync, error) {
	u, err := url.Parse(current)
	if err != nil {
		return nil, err
	}
	s := &Sync{path: u.Path, params: u.Query(), replace: replace}
	s.deb = NewDebouncer(wait, s.apply, opts...)
	return s, nil
}

// OnInput recibe cada cambio del input de búsqueda.
func (s *Sync) OnInput(term string) {
	s.deb.Submit(term)
}

// Close descarta el efecto pendiente.
func (s *Sync) Close() {
	s.deb.Dispose()
}

// URL estado navegable actual.
func (s *Sync) URL() string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.urlLocked()
}

// Query término activo (vacío si no hay búsqueda).
func (s *Sync) Query() string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.params.Get(ParamQuery)
}

func (s *Sync) apply(term string) {
	s.mu.Lock()
	params := cloneValues(s.params)
	params.Set(ParamPage, "1")
	if term != "" {
		params.Set(ParamQuery, term)
	} else {
		params.Del(ParamQuery)
	}
	s.params = params
	next := s.urlLocked()
	s.mu.Unlock()

	if s.replace != nil {
		s.replace(next)
	}
}

func (s *Sync) urlLocked() string {
	if len(s.params) == 0 {
		return s.path
	}
	return s.path + "?" + s.params.Encode()
}

func cloneValues(v url.Values) url.Values {
	out := make(url.Values, len(v))
	for k, vs := range v {
		out[k] = append([]string(nil), vs...)
	}
	return out
}
