package partners

import "github.com/partnerpay/partnerpay/internal/model"

// Service provides in-memory lookup over a partner registry snapshot.
type Service struct {
	partners []model.Partner
	byID     map[string]model.Partner
}

// NewService creates a Service from a registry snapshot.
func NewService(partners []model.Partner) *Service {
	byID := make(map[string]model.Partner, len(partners))
	for _, p := range partners {
		byID[p.ID] = p
	}
	return &Service{partners: partners, byID: byID}
}

// All returns all partners in registry order.
func (s *Service) All() []model.Partner {
	return s.partners
}

// Get returns a partner by ID.
func (s *Service) Get(id string) (model.Partner, bool) {
	p, ok := s.byID[id]
	return p, ok
}

// Exists reports whether a partner ID exists.
func (s *Service) Exists(id string) bool {
	_, ok := s.byID[id]
	return ok
}

// Name returns the display name for a partner ID, or "" when unknown.
func (s *Service) Name(id string) string {
	return s.byID[id].Name
}

// Resolve looks a partner up by ID first and then by exact normalized name.
func (s *Service) Resolve(ref string) (model.Partner, bool) {
	if p, ok := s.byID[ref]; ok {
		return p, true
	}
	want := Normalize(ref)
	for _, p := range s.partners {
		if Normalize(p.Name) == want {
			return p, true
		}
	}
	return model.Partner{}, false
}
