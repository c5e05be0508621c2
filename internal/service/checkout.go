package service

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"slices"
	"strings"
	"time"

	"berrypay/internal/apperror"
	"berrypay/internal/cache"
	"berrypay/internal/dto"
	"berrypay/internal/editor"
	"berrypay/internal/metrics"
	"berrypay/internal/model"
	"berrypay/internal/payment"
	"berrypay/internal/repository"

	"github.com/google/uuid"
	"gorm.io/datatypes"
	"gorm.io/gorm"
)

const (
	msgCheckoutNotFound = "Checkout não encontrado"
	msgSlugTaken        = "Este slug já está em uso"
	slugAttempts        = 5
)

type CheckoutService interface {
	Create(ctx context.Context, userID string, req *dto.CreateCheckoutRequest) (*model.Checkout, error)
	Update(ctx context.Context, userID, checkoutID string, req *dto.UpdateCheckoutRequest) (*model.Checkout, error)
	Get(ctx context.Context, userID, checkoutID string) (*model.Checkout, error)
	List(ctx context.Context, userID string) ([]*model.Checkout, error)
	ApplyEditor(ctx context.Context, userID, checkoutID string, actions []editor.Action) (*dto.EditorResponse, error)
	EditorState(ctx context.Context, userID, checkoutID string) (*editor.State, error)
	PublicView(ctx context.Context, slug string) (*dto.PublicCheckoutResponse, error)
}

type CheckoutServiceDeps struct {
	CheckoutRepo repository.CheckoutRepository
	ProductRepo  repository.ProductRepository
	SettingsRepo repository.SettingsRepository
	Payments     *payment.Registry
	Cache        cache.Cache
	CacheTTL     time.Duration
	Metrics      *metrics.Metrics
	Currency     string
	Logger       *slog.Logger
}

type checkoutServiceImpl struct {
	checkoutRepo repository.CheckoutRepository
	productRepo  repository.ProductRepository
	settingsRepo repository.SettingsRepository
	payments     *payment.Registry
	cache        cache.Cache
	cacheTTL     time.Duration
	metrics      *metrics.Metrics
	currency     string
	logger       *slog.Logger
}

func NewCheckoutService(deps CheckoutServiceDeps) CheckoutService {
	c := deps.Cache
	if c == nil {
		c = cache.Noop{}
	}
	return &checkoutServiceImpl{
		checkoutRepo: deps.CheckoutRepo,
		productRepo:  deps.ProductRepo,
		settingsRepo: deps.SettingsRepo,
		payments:     deps.Payments,
		cache:        c,
		cacheTTL:     deps.CacheTTL,
		metrics:      deps.Metrics,
		currency:     deps.Currency,
		logger:       deps.Logger.With("component", "checkout"),
	}
}

func publicCacheKey(slug string) string {
	return "checkout:public:" + slug
}

func (s *checkoutServiceImpl) Create(ctx context.Context, userID string, req *dto.CreateCheckoutRequest) (*model.Checkout, error) {
	name := strings.TrimSpace(req.Name)
	if name == "" {
		return nil, apperror.Validation("name", "Informe o nome do checkout")
	}
	if err := s.ensureProduct(ctx, userID, req.ProductID, "productId"); err != nil {
		return nil, err
	}

	cfg, err := model.DecodeConfig(model.DefaultCheckoutConfig(), req.Config)
	if err != nil {
		return nil, err
	}
	if err := s.validateConfig(ctx, userID, req.ProductID, &cfg); err != nil {
		return nil, err
	}

	checkout := &model.Checkout{
		ID:                uuid.NewString(),
		UserID:            userID,
		ProductID:         req.ProductID,
		Name:              name,
		Description:       req.Description,
		AllowCustomAmount: req.AllowCustomAmount,
		Config:            datatypes.NewJSONType(cfg),
		Active:            true,
	}
	if req.Active != nil {
		checkout.Active = *req.Active
	}

	if req.Slug != "" {
		if err := s.claimSlug(ctx, req.Slug); err != nil {
			return nil, err
		}
		checkout.Slug = req.Slug
		if err := s.checkoutRepo.Create(ctx, checkout); err != nil {
			if errors.Is(err, gorm.ErrDuplicatedKey) {
				return nil, apperror.Validation("slug", msgSlugTaken)
			}
			return nil, fmt.Errorf("create checkout: %w", err)
		}
		return checkout, nil
	}

	for attempt := 0; attempt < slugAttempts; attempt++ {
		checkout.Slug = candidateSlug(name)
		err := s.checkoutRepo.Create(ctx, checkout)
		if err == nil {
			return checkout, nil
		}
		if !errors.Is(err, gorm.ErrDuplicatedKey) {
			return nil, fmt.Errorf("create checkout: %w", err)
		}
	}
	return nil, fmt.Errorf("create checkout: no free slug after %d attempts", slugAttempts)
}

func (s *checkoutServiceImpl) Update(ctx context.Context, userID, checkoutID string, req *dto.UpdateCheckoutRequest) (*model.Checkout, error) {
	checkout, err := s.checkoutRepo.FindOwned(ctx, userID, checkoutID)
	if err != nil {
		return nil, orNotFound(err, msgCheckoutNotFound)
	}
	oldSlug := checkout.Slug

	if req.Name != nil {
		name := strings.TrimSpace(*req.Name)
		if name == "" {
			return nil, apperror.Validation("name", "Informe o nome do checkout")
		}
		checkout.Name = name
	}
	if req.Description != nil {
		checkout.Description = *req.Description
	}
	if req.AllowCustomAmount != nil {
		checkout.AllowCustomAmount = *req.AllowCustomAmount
	}
	if req.Active != nil {
		checkout.Active = *req.Active
	}
	if req.ProductID != nil && *req.ProductID != checkout.ProductID {
		if err := s.ensureProduct(ctx, userID, *req.ProductID, "productId"); err != nil {
			return nil, err
		}
		checkout.ProductID = *req.ProductID
	}
	if req.Slug != nil && *req.Slug != checkout.Slug {
		if err := s.claimSlug(ctx, *req.Slug); err != nil {
			return nil, err
		}
		checkout.Slug = *req.Slug
	}

	cfg := checkout.Config.Data()
	if err := s.dropDeletedRefs(ctx, &cfg); err != nil {
		return nil, err
	}
	if len(req.Config) > 0 {
		cfg, err = model.DecodeConfig(cfg, req.Config)
		if err != nil {
			return nil, err
		}
	}
	if err := s.validateConfig(ctx, userID, checkout.ProductID, &cfg); err != nil {
		return nil, err
	}
	checkout.Config = datatypes.NewJSONType(cfg)

	if err := s.save(ctx, checkout, oldSlug); err != nil {
		return nil, err
	}
	return checkout, nil
}

func (s *checkoutServiceImpl) Get(ctx context.Context, userID, checkoutID string) (*model.Checkout, error) {
	checkout, err := s.checkoutRepo.FindOwned(ctx, userID, checkoutID)
	if err != nil {
		return nil, orNotFound(err, msgCheckoutNotFound)
	}
	return checkout, nil
}

func (s *checkoutServiceImpl) List(ctx context.Context, userID string) ([]*model.Checkout, error) {
	checkouts, err := s.checkoutRepo.ListByUser(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("list checkouts: %w", err)
	}
	if checkouts == nil {
		checkouts = []*model.Checkout{}
	}
	return checkouts, nil
}

// ApplyEditor runs the editor actions against the stored config and persists
// the result. Nothing is saved if any action is rejected.
func (s *checkoutServiceImpl) ApplyEditor(ctx context.Context, userID, checkoutID string, actions []editor.Action) (*dto.EditorResponse, error) {
	checkout, err := s.checkoutRepo.FindOwned(ctx, userID, checkoutID)
	if err != nil {
		return nil, orNotFound(err, msgCheckoutNotFound)
	}

	stored := checkout.Config.Data()
	if err := s.dropDeletedRefs(ctx, &stored); err != nil {
		return nil, err
	}
	state := editor.New(stored)
	if err := state.ApplyAll(actions); err != nil {
		return nil, err
	}

	cfg := state.Config()
	if err := s.validateConfig(ctx, userID, checkout.ProductID, &cfg); err != nil {
		return nil, err
	}
	checkout.Config = datatypes.NewJSONType(cfg)

	if err := s.save(ctx, checkout, checkout.Slug); err != nil {
		return nil, err
	}

	return &dto.EditorResponse{
		Checkout:         checkout,
		RemainingSeconds: state.RemainingSeconds(),
	}, nil
}

func (s *checkoutServiceImpl) PublicView(ctx context.Context, slug string) (*dto.PublicCheckoutResponse, error) {
	var view dto.PublicCheckoutResponse
	hit, err := s.cache.GetJSON(ctx, publicCacheKey(slug), &view)
	if err != nil {
		s.logger.Warn("public checkout cache read failed", "slug", slug, "error", err)
	}
	if hit {
		s.countView(ctx, view.Checkout.ID, "cache")
		return &view, nil
	}

	checkout, err := s.checkoutRepo.FindBySlug(ctx, slug)
	if err != nil {
		return nil, orNotFound(err, msgCheckoutNotFound)
	}
	if !checkout.Active {
		return nil, apperror.NotFound(msgCheckoutNotFound)
	}

	product, err := s.productRepo.FindByID(ctx, checkout.ProductID)
	if err != nil {
		return nil, orNotFound(err, msgCheckoutNotFound)
	}
	if !product.Active || product.UserID != checkout.UserID {
		return nil, apperror.NotFound(msgCheckoutNotFound)
	}

	cfg := checkout.Config.Data()
	cfg.Normalize()

	refs, err := s.sellableProducts(ctx, checkout.UserID, cfg.ProductRefs())
	if err != nil {
		return nil, err
	}

	settings, err := s.settingsRepo.FindByUser(ctx, checkout.UserID)
	if err != nil && !errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, fmt.Errorf("find seller settings: %w", err)
	}
	if settings == nil {
		settings = &model.Settings{}
	}

	view = dto.PublicCheckoutResponse{
		Checkout: dto.PublicCheckout{
			ID:                checkout.ID,
			Slug:              checkout.Slug,
			Name:              checkout.Name,
			Description:       checkout.Description,
			AllowCustomAmount: checkout.AllowCustomAmount,
			Config:            cfg,
		},
		Product: publicProduct(product),
		Upsells: []dto.PublicProduct{},
		Seller: dto.PublicSeller{
			BusinessName:  settings.BusinessName,
			LogoURL:       settings.LogoURL,
			PrimaryColor:  settings.PrimaryColor,
			FacebookPixel: settings.FacebookPixel,
			UtmfyToken:    settings.UtmfyToken,
			PixKey:        settings.PixKey,
			PixKeyType:    settings.PixKeyType,
		},
		PaymentMethods: s.payments.EnabledMethods(payment.PayeeFromSettings(settings)),
		Currency:       s.currency,
	}
	for _, id := range cfg.UpsellProducts {
		if p, ok := refs[id]; ok {
			view.Upsells = append(view.Upsells, publicProduct(p))
		}
	}
	if cfg.OrderBumpProduct != nil {
		if p, ok := refs[*cfg.OrderBumpProduct]; ok {
			bump := publicProduct(p)
			view.OrderBump = &bump
		}
	}
	if cfg.ShowTimer {
		view.TimerSeconds = cfg.TimerMinutes * 60
	}

	if err := s.cache.SetJSON(ctx, publicCacheKey(slug), view, s.cacheTTL); err != nil {
		s.logger.Warn("public checkout cache write failed", "slug", slug, "error", err)
	}
	s.countView(ctx, checkout.ID, "db")
	return &view, nil
}

func (s *checkoutServiceImpl) countView(ctx context.Context, checkoutID, source string) {
	if err := s.checkoutRepo.IncrementViews(ctx, checkoutID); err != nil {
		s.logger.Error("increment checkout views", "checkout_id", checkoutID, "error", err)
	}
	if s.metrics != nil {
		s.metrics.CheckoutViews.WithLabelValues(source).Inc()
	}
}

func (s *checkoutServiceImpl) save(ctx context.Context, checkout *model.Checkout, oldSlug string) error {
	if err := s.checkoutRepo.Update(ctx, checkout); err != nil {
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			return apperror.Validation("slug", msgSlugTaken)
		}
		return fmt.Errorf("update checkout: %w", err)
	}

	keys := []string{publicCacheKey(checkout.Slug)}
	if oldSlug != checkout.Slug {
		keys = append(keys, publicCacheKey(oldSlug))
	}
	if err := s.cache.Delete(ctx, keys...); err != nil {
		s.logger.Warn("public checkout cache invalidation failed", "checkout_id", checkout.ID, "error", err)
	}
	return nil
}

func (s *checkoutServiceImpl) claimSlug(ctx context.Context, slug string) error {
	if !validSlug(slug) {
		return apperror.Validation("slug", "Use apenas letras minúsculas, números e hífens")
	}
	taken, err := s.checkoutRepo.SlugExists(ctx, slug)
	if err != nil {
		return fmt.Errorf("check slug: %w", err)
	}
	if taken {
		return apperror.Validation("slug", msgSlugTaken)
	}
	return nil
}

func (s *checkoutServiceImpl) ensureProduct(ctx context.Context, userID, productID, field string) error {
	if _, err := s.productRepo.FindOwned(ctx, userID, productID); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return apperror.Validation(field, msgProductNotFound)
		}
		return fmt.Errorf("find product: %w", err)
	}
	return nil
}

// validateConfig applies the document rules and checks that every referenced
// product exists, belongs to the seller and is not the checkout's own product.
func (s *checkoutServiceImpl) validateConfig(ctx context.Context, userID, productID string, cfg *model.CheckoutConfig) error {
	if err := cfg.Validate(); err != nil {
		return err
	}

	products, err := s.productRepo.FindMany(ctx, cfg.ProductRefs())
	if err != nil {
		return fmt.Errorf("find referenced products: %w", err)
	}
	owned := make(map[string]bool, len(products))
	for _, p := range products {
		owned[p.ID] = p.UserID == userID
	}

	for i, id := range cfg.UpsellProducts {
		field := fmt.Sprintf("config.upsellProducts[%d]", i)
		if id == productID {
			return apperror.Validation(field, "O produto principal não pode ser um upsell")
		}
		if !owned[id] {
			return apperror.Validation(field, msgProductNotFound)
		}
	}
	if cfg.OrderBumpProduct != nil {
		if *cfg.OrderBumpProduct == productID {
			return apperror.Validation("config.orderBumpProduct", "O produto principal não pode ser o order bump")
		}
		if !owned[*cfg.OrderBumpProduct] {
			return apperror.Validation("config.orderBumpProduct", msgProductNotFound)
		}
	}
	return nil
}

// dropDeletedRefs removes upsell and order bump references to products that
// no longer exist, so a stored document stays saveable after a product delete.
func (s *checkoutServiceImpl) dropDeletedRefs(ctx context.Context, cfg *model.CheckoutConfig) error {
	refs := cfg.ProductRefs()
	if len(refs) == 0 {
		return nil
	}
	products, err := s.productRepo.FindMany(ctx, refs)
	if err != nil {
		return fmt.Errorf("find referenced products: %w", err)
	}
	exists := make(map[string]bool, len(products))
	for _, p := range products {
		exists[p.ID] = true
	}

	cfg.UpsellProducts = slices.DeleteFunc(slices.Clone(cfg.UpsellProducts), func(id string) bool {
		return !exists[id]
	})
	if cfg.OrderBumpProduct != nil && !exists[*cfg.OrderBumpProduct] {
		cfg.OrderBumpProduct = nil
	}
	return nil
}

// EditorState loads the stored config into an editor, used to drive the
// preview countdown.
func (s *checkoutServiceImpl) EditorState(ctx context.Context, userID, checkoutID string) (*editor.State, error) {
	checkout, err := s.checkoutRepo.FindOwned(ctx, userID, checkoutID)
	if err != nil {
		return nil, orNotFound(err, msgCheckoutNotFound)
	}
	return editor.New(checkout.Config.Data()), nil
}

// sellableProducts loads ids and keeps only active products of the seller.
func (s *checkoutServiceImpl) sellableProducts(ctx context.Context, userID string, ids []string) (map[string]*model.Product, error) {
	products, err := s.productRepo.FindMany(ctx, ids)
	if err != nil {
		return nil, fmt.Errorf("find referenced products: %w", err)
	}
	out := make(map[string]*model.Product, len(products))
	for _, p := range products {
		if p.Active && p.UserID == userID {
			out[p.ID] = p
		}
	}
	return out, nil
}

func publicProduct(p *model.Product) dto.PublicProduct {
	return dto.PublicProduct{
		ID:          p.ID,
		Name:        p.Name,
		Description: p.Description,
		Price:       p.Price,
		ImageURL:    p.ImageURL,
	}
}
