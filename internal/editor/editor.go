// Package editor applies structured edits to a checkout config document and
// drives the preview countdown.
package editor

import (
	"fmt"
	"slices"
	"strings"
	"sync"

	"berrypay/internal/apperror"
	"berrypay/internal/model"

	"github.com/google/uuid"
)

type ActionType string

const (
	ActionAddTestimonial      ActionType = "addTestimonial"
	ActionRemoveTestimonial   ActionType = "removeTestimonial"
	ActionToggleUpsell        ActionType = "toggleUpsell"
	ActionSetOrderBump        ActionType = "setOrderBump"
	ActionClearOrderBump      ActionType = "clearOrderBump"
	ActionSetHeroImage        ActionType = "setHeroImage"
	ActionSetTestimonialImage ActionType = "setTestimonialImage"
	ActionSetTimerMinutes     ActionType = "setTimerMinutes"
)

// Action is one edit. Only the fields relevant to Type are read.
type Action struct {
	Type        ActionType         `json:"type"`
	Testimonial *model.Testimonial `json:"testimonial,omitempty"`
	ID          string             `json:"id,omitempty"`
	ProductID   string             `json:"productId,omitempty"`
	ImageURL    string             `json:"imageUrl,omitempty"`
	Minutes     *int               `json:"minutes,omitempty"`
}

// State is the editor's working copy of a config plus the preview countdown.
type State struct {
	mu        sync.Mutex
	config    model.CheckoutConfig
	remaining int
}

func New(cfg model.CheckoutConfig) *State {
	cfg = cfg.Clone()
	cfg.Normalize()
	return &State{
		config:    cfg,
		remaining: cfg.TimerMinutes * 60,
	}
}

func (s *State) Config() model.CheckoutConfig {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.config.Clone()
}

// RemainingSeconds is the preview countdown. It is never persisted.
func (s *State) RemainingSeconds() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.remaining
}

// ApplyAll applies actions in order and stops at the first rejected one.
// Actions applied before the failure are kept.
func (s *State) ApplyAll(actions []Action) error {
	for i, a := range actions {
		if err := s.Apply(a); err != nil {
			return fmt.Errorf("action %d (%s): %w", i, a.Type, err)
		}
	}
	return nil
}

func (s *State) Apply(a Action) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	cfg := &s.config
	switch a.Type {
	case ActionAddTestimonial:
		if len(cfg.Testimonials) >= model.MaxTestimonials {
			return apperror.Validation("testimonials", fmt.Sprintf("Máximo de %d depoimentos", model.MaxTestimonials))
		}
		if a.Testimonial == nil {
			return apperror.Validation("testimonial", "Informe o depoimento")
		}
		t := *a.Testimonial
		t.Name = strings.TrimSpace(t.Name)
		if t.Name == "" {
			return apperror.Validation("testimonial.name", "Informe o nome do depoimento")
		}
		if t.Rating == 0 {
			t.Rating = model.MaxRating
		}
		if t.Rating < model.MinRating || t.Rating > model.MaxRating {
			return apperror.Validation("testimonial.rating", "A avaliação deve ser entre 1 e 5")
		}
		if t.ID == "" {
			t.ID = uuid.NewString()
		}
		cfg.Testimonials = append(cfg.Testimonials, t)

	case ActionRemoveTestimonial:
		i := s.testimonialIndex(a.ID)
		if i < 0 {
			return apperror.Validation("id", "Depoimento não encontrado")
		}
		cfg.Testimonials = slices.Delete(cfg.Testimonials, i, i+1)

	case ActionToggleUpsell:
		if a.ProductID == "" {
			return apperror.Validation("productId", "Informe o produto")
		}
		if i := slices.Index(cfg.UpsellProducts, a.ProductID); i >= 0 {
			cfg.UpsellProducts = slices.Delete(cfg.UpsellProducts, i, i+1)
			return nil
		}
		if len(cfg.UpsellProducts) >= model.MaxUpsellProducts {
			return apperror.Validation("upsellProducts", fmt.Sprintf("Máximo de %d produtos de upsell", model.MaxUpsellProducts))
		}
		if cfg.OrderBumpProduct != nil && *cfg.OrderBumpProduct == a.ProductID {
			return apperror.Validation("upsellProducts", "O order bump não pode ser também um upsell")
		}
		cfg.UpsellProducts = append(cfg.UpsellProducts, a.ProductID)

	case ActionSetOrderBump:
		if a.ProductID == "" {
			return apperror.Validation("productId", "Informe o produto")
		}
		if cfg.HasUpsell(a.ProductID) {
			return apperror.Validation("orderBumpProduct", "O order bump não pode ser também um upsell")
		}
		id := a.ProductID
		cfg.OrderBumpProduct = &id

	case ActionClearOrderBump:
		cfg.OrderBumpProduct = nil

	case ActionSetHeroImage:
		cfg.HeroImageURL = a.ImageURL

	case ActionSetTestimonialImage:
		i := s.testimonialIndex(a.ID)
		if i < 0 {
			return apperror.Validation("id", "Depoimento não encontrado")
		}
		cfg.Testimonials[i].ImageURL = a.ImageURL

	case ActionSetTimerMinutes:
		if a.Minutes == nil {
			return apperror.Validation("minutes", "Informe a duração do timer")
		}
		m := *a.Minutes
		if m < 0 || m > model.MaxTimerMinutes {
			return apperror.Validation("minutes", fmt.Sprintf("O timer deve ter entre 0 e %d minutos", model.MaxTimerMinutes))
		}
		cfg.TimerMinutes = m
		s.remaining = m * 60

	default:
		return apperror.Validation("type", fmt.Sprintf("Ação desconhecida: %q", a.Type))
	}
	return nil
}

func (s *State) testimonialIndex(id string) int {
	if id == "" {
		return -1
	}
	return slices.IndexFunc(s.config.Testimonials, func(t model.Testimonial) bool {
		return t.ID == id
	})
}
