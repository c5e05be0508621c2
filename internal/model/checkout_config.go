package model

import (
	"encoding/json"
	"errors"
	"fmt"
	"regexp"
	"slices"

	"berrypay/internal/apperror"

	"github.com/google/uuid"
)

const (
	MaxTestimonials   = 3
	MaxUpsellProducts = 10
	MinRating         = 1
	MaxRating         = 5
	MaxTimerMinutes   = 24 * 60
)

var hexColor = regexp.MustCompile(`^#(?:[0-9a-fA-F]{3}|[0-9a-fA-F]{6})$`)

type Benefit struct {
	Icon     string `json:"icon"`
	Title    string `json:"title"`
	Subtitle string `json:"subtitle"`
}

type Testimonial struct {
	ID       string `json:"id"`
	Name     string `json:"name"`
	ImageURL string `json:"imageUrl"`
	Rating   int    `json:"rating"`
	Text     string `json:"text"`
}

// CheckoutConfig is the themeable document stored on each checkout.
// Every field is optional on input and merged over DefaultCheckoutConfig.
type CheckoutConfig struct {
	TimerMinutes int    `json:"timerMinutes"`
	TimerText    string `json:"timerText"`
	TimerColor   string `json:"timerColor"`
	ShowTimer    bool   `json:"showTimer"`

	HeroImageURL  string `json:"heroImageUrl"`
	HeroTitle     string `json:"heroTitle"`
	HeroBadgeText string `json:"heroBadgeText"`

	PrimaryColor    string `json:"primaryColor"`
	BackgroundColor string `json:"backgroundColor"`
	HighlightColor  string `json:"highlightColor"`
	TextColor       string `json:"textColor"`

	BenefitsList     []Benefit     `json:"benefitsList"`
	Testimonials     []Testimonial `json:"testimonials"`
	UpsellProducts   []string      `json:"upsellProducts"`
	OrderBumpProduct *string       `json:"orderBumpProduct"`

	PayButtonText string `json:"payButtonText"`
	FooterText    string `json:"footerText"`
	PrivacyText   string `json:"privacyText"`

	ShowPhone         bool `json:"showPhone"`
	ShowCpf           bool `json:"showCpf"`
	ShowChangeCountry bool `json:"showChangeCountry"`
}

func DefaultCheckoutConfig() CheckoutConfig {
	return CheckoutConfig{
		TimerMinutes: 15,
		TimerText:    "Oferta por tempo limitado!",
		TimerColor:   "#DC2626",
		ShowTimer:    true,

		PrimaryColor:    "#7C3AED",
		BackgroundColor: "#F9FAFB",
		HighlightColor:  "#10B981",
		TextColor:       "#111827",

		BenefitsList: []Benefit{
			{Icon: "shield", Title: "Compra segura", Subtitle: "Seus dados protegidos"},
			{Icon: "zap", Title: "Acesso imediato", Subtitle: "Receba logo após o pagamento"},
		},
		Testimonials:   []Testimonial{},
		UpsellProducts: []string{},

		PayButtonText: "Finalizar compra",
		FooterText:    "Todos os direitos reservados",
		PrivacyText:   "Seus dados estão seguros e não serão compartilhados.",

		ShowPhone: true,
	}
}

// DecodeConfig decodes raw over a copy of base. Keys absent from raw keep the
// base value; present keys replace it, including whole lists.
func DecodeConfig(base CheckoutConfig, raw []byte) (CheckoutConfig, error) {
	cfg := base.Clone()
	if len(raw) == 0 || string(raw) == "null" {
		cfg.Normalize()
		return cfg, nil
	}

	var keys map[string]json.RawMessage
	if err := json.Unmarshal(raw, &keys); err != nil {
		return CheckoutConfig{}, apperror.Validation("config", "Configuração inválida")
	}
	// lists present in raw are decoded into fresh storage so stale
	// elements of base never bleed into the result
	if _, ok := keys["benefitsList"]; ok {
		cfg.BenefitsList = nil
	}
	if _, ok := keys["testimonials"]; ok {
		cfg.Testimonials = nil
	}
	if _, ok := keys["upsellProducts"]; ok {
		cfg.UpsellProducts = nil
	}
	if _, ok := keys["orderBumpProduct"]; ok {
		cfg.OrderBumpProduct = nil
	}

	if err := json.Unmarshal(raw, &cfg); err != nil {
		var typeErr *json.UnmarshalTypeError
		if errors.As(err, &typeErr) && typeErr.Field != "" {
			return CheckoutConfig{}, apperror.Validation("config."+typeErr.Field, "Tipo de valor inválido")
		}
		return CheckoutConfig{}, apperror.Validation("config", "Configuração inválida")
	}
	cfg.Normalize()
	return cfg, nil
}

// Normalize refills blank theme and copy fields from the defaults, replaces
// nil lists with empty ones and gives every testimonial an id.
func (c *CheckoutConfig) Normalize() {
	def := DefaultCheckoutConfig()
	fill := func(dst *string, fallback string) {
		if *dst == "" {
			*dst = fallback
		}
	}
	fill(&c.TimerText, def.TimerText)
	fill(&c.TimerColor, def.TimerColor)
	fill(&c.PrimaryColor, def.PrimaryColor)
	fill(&c.BackgroundColor, def.BackgroundColor)
	fill(&c.HighlightColor, def.HighlightColor)
	fill(&c.TextColor, def.TextColor)
	fill(&c.PayButtonText, def.PayButtonText)
	fill(&c.FooterText, def.FooterText)
	fill(&c.PrivacyText, def.PrivacyText)

	if c.BenefitsList == nil {
		c.BenefitsList = []Benefit{}
	}
	if c.Testimonials == nil {
		c.Testimonials = []Testimonial{}
	}
	for i := range c.Testimonials {
		if c.Testimonials[i].ID == "" {
			c.Testimonials[i].ID = uuid.NewString()
		}
	}
	if c.UpsellProducts == nil {
		c.UpsellProducts = []string{}
	}
	if c.OrderBumpProduct != nil && *c.OrderBumpProduct == "" {
		c.OrderBumpProduct = nil
	}
}

// Validate applies the write-path rules. The first violation is returned.
func (c *CheckoutConfig) Validate() error {
	if c.TimerMinutes < 0 || c.TimerMinutes > MaxTimerMinutes {
		return apperror.Validation("config.timerMinutes", fmt.Sprintf("O timer deve ter entre 0 e %d minutos", MaxTimerMinutes))
	}
	if c.ShowTimer && c.TimerMinutes == 0 {
		return apperror.Validation("config.timerMinutes", "Informe a duração do timer")
	}

	colors := []struct {
		field, value string
	}{
		{"timerColor", c.TimerColor},
		{"primaryColor", c.PrimaryColor},
		{"backgroundColor", c.BackgroundColor},
		{"highlightColor", c.HighlightColor},
		{"textColor", c.TextColor},
	}
	for _, col := range colors {
		if !hexColor.MatchString(col.value) {
			return apperror.Validation("config."+col.field, "Cor inválida")
		}
	}

	if len(c.Testimonials) > MaxTestimonials {
		return apperror.Validation("config.testimonials", fmt.Sprintf("Máximo de %d depoimentos", MaxTestimonials))
	}
	testimonialIDs := make(map[string]struct{}, len(c.Testimonials))
	for i, t := range c.Testimonials {
		if t.Rating < MinRating || t.Rating > MaxRating {
			return apperror.Validation(fmt.Sprintf("config.testimonials[%d].rating", i), "A avaliação deve ser entre 1 e 5")
		}
		if t.Name == "" {
			return apperror.Validation(fmt.Sprintf("config.testimonials[%d].name", i), "Informe o nome do depoimento")
		}
		if t.ID == "" {
			continue
		}
		if _, dup := testimonialIDs[t.ID]; dup {
			return apperror.Validation(fmt.Sprintf("config.testimonials[%d].id", i), "Depoimento duplicado")
		}
		testimonialIDs[t.ID] = struct{}{}
	}

	if len(c.UpsellProducts) > MaxUpsellProducts {
		return apperror.Validation("config.upsellProducts", fmt.Sprintf("Máximo de %d produtos de upsell", MaxUpsellProducts))
	}
	seen := make(map[string]struct{}, len(c.UpsellProducts))
	for i, id := range c.UpsellProducts {
		if id == "" {
			return apperror.Validation(fmt.Sprintf("config.upsellProducts[%d]", i), "Produto de upsell inválido")
		}
		if _, dup := seen[id]; dup {
			return apperror.Validation(fmt.Sprintf("config.upsellProducts[%d]", i), "Produto de upsell duplicado")
		}
		seen[id] = struct{}{}
	}
	if c.OrderBumpProduct != nil {
		if _, clash := seen[*c.OrderBumpProduct]; clash {
			return apperror.Validation("config.orderBumpProduct", "O order bump não pode ser também um upsell")
		}
	}
	return nil
}

// ProductRefs lists every product id referenced by the document.
func (c *CheckoutConfig) ProductRefs() []string {
	refs := slices.Clone(c.UpsellProducts)
	if c.OrderBumpProduct != nil {
		refs = append(refs, *c.OrderBumpProduct)
	}
	return refs
}

func (c *CheckoutConfig) HasUpsell(productID string) bool {
	return slices.Contains(c.UpsellProducts, productID)
}

func (c CheckoutConfig) Clone() CheckoutConfig {
	out := c
	out.BenefitsList = slices.Clone(c.BenefitsList)
	out.Testimonials = slices.Clone(c.Testimonials)
	out.UpsellProducts = slices.Clone(c.UpsellProducts)
	if c.OrderBumpProduct != nil {
		id := *c.OrderBumpProduct
		out.OrderBumpProduct = &id
	}
	return out
}
