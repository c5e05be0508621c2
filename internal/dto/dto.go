package dto

import (
	"encoding/json"
	"time"

	"berrypay/internal/editor"
	"berrypay/internal/model"
)

type ErrorResponse struct {
	Message string `json:"message"`
	Field   string `json:"field,omitempty"`
}

// -------- auth --------

type AuthRequest struct {
	Username string `json:"username" validate:"required,min=3,max=50"`
	Password string `json:"password" validate:"required,min=6,max=72"`
}

type UserResponse struct {
	ID       string `json:"id"`
	Username string `json:"username"`
}

// -------- products --------

type CreateProductRequest struct {
	Name          string               `json:"name" validate:"required,max=255"`
	Description   string               `json:"description"`
	Price         int64                `json:"price" validate:"gt=0"`
	ImageURL      string               `json:"imageUrl" validate:"max=1024"`
	DeliveryURL   string               `json:"deliveryUrl" validate:"max=1024"`
	WhatsappURL   string               `json:"whatsappUrl" validate:"max=1024"`
	DeliveryFiles []model.DeliveryFile `json:"deliveryFiles"`
	Active        *bool                `json:"active"`
}

type UpdateProductRequest struct {
	Name          *string               `json:"name" validate:"omitempty,min=1,max=255"`
	Description   *string               `json:"description"`
	Price         *int64                `json:"price" validate:"omitempty,gt=0"`
	ImageURL      *string               `json:"imageUrl" validate:"omitempty,max=1024"`
	DeliveryURL   *string               `json:"deliveryUrl" validate:"omitempty,max=1024"`
	WhatsappURL   *string               `json:"whatsappUrl" validate:"omitempty,max=1024"`
	DeliveryFiles *[]model.DeliveryFile `json:"deliveryFiles"`
	Active        *bool                 `json:"active"`
}

// -------- checkouts --------

type CreateCheckoutRequest struct {
	ProductID         string          `json:"productId" validate:"required"`
	Name              string          `json:"name" validate:"required,max=255"`
	Slug              string          `json:"slug" validate:"max=128"`
	Description       string          `json:"description"`
	AllowCustomAmount bool            `json:"allowCustomAmount"`
	Active            *bool           `json:"active"`
	Config            json.RawMessage `json:"config"`
}

type UpdateCheckoutRequest struct {
	ProductID         *string         `json:"productId" validate:"omitempty,min=1"`
	Name              *string         `json:"name" validate:"omitempty,min=1,max=255"`
	Slug              *string         `json:"slug" validate:"omitempty,max=128"`
	Description       *string         `json:"description"`
	AllowCustomAmount *bool           `json:"allowCustomAmount"`
	Active            *bool           `json:"active"`
	Config            json.RawMessage `json:"config"`
}

type EditorRequest struct {
	Actions []editor.Action `json:"actions" validate:"required,min=1,max=50"`
}

type EditorResponse struct {
	Checkout         *model.Checkout `json:"checkout"`
	RemainingSeconds int             `json:"remainingSeconds"`
}

// -------- public checkout --------

type PublicProduct struct {
	ID          string `json:"id"`
	Name        string `json:"name"`
	Description string `json:"description"`
	Price       int64  `json:"price"`
	ImageURL    string `json:"imageUrl"`
}

type PublicCheckout struct {
	ID                string               `json:"id"`
	Slug              string               `json:"slug"`
	Name              string               `json:"name"`
	Description       string               `json:"description"`
	AllowCustomAmount bool                 `json:"allowCustomAmount"`
	Config            model.CheckoutConfig `json:"config"`
}

// PublicSeller is the branding and payment data any visitor can see.
type PublicSeller struct {
	BusinessName  string `json:"businessName"`
	LogoURL       string `json:"logoUrl"`
	PrimaryColor  string `json:"primaryColor"`
	FacebookPixel string `json:"facebookPixel"`
	UtmfyToken    string `json:"utmfyToken"`
	PixKey        string `json:"pixKey"`
	PixKeyType    string `json:"pixKeyType"`
}

type PublicCheckoutResponse struct {
	Checkout       PublicCheckout        `json:"checkout"`
	Product        PublicProduct         `json:"product"`
	OrderBump      *PublicProduct        `json:"orderBump"`
	Upsells        []PublicProduct       `json:"upsells"`
	Seller         PublicSeller          `json:"seller"`
	PaymentMethods []model.PaymentMethod `json:"paymentMethods"`
	TimerSeconds   int                   `json:"timerSeconds"`
	Currency       string                `json:"currency"`
}

// -------- purchase & payment --------

type PurchaseRequest struct {
	PaymentMethod    string   `json:"paymentMethod" validate:"required,oneof=pix paypal"`
	CustomerName     string   `json:"customerName" validate:"required,max=255"`
	CustomerEmail    string   `json:"customerEmail" validate:"required,email,max=255"`
	CustomerPhone    string   `json:"customerPhone" validate:"max=32"`
	CustomerCpf      string   `json:"customerCpf" validate:"max=14"`
	OrderBump        bool     `json:"orderBump"`
	UpsellProductIDs []string `json:"upsellProductIds" validate:"max=10"`
	CustomAmount     *int64   `json:"customAmount"`
}

// CreatePaypalOrderRequest is a purchase with the payment method fixed to paypal.
type CreatePaypalOrderRequest struct {
	Slug string `json:"slug" validate:"required"`
	PurchaseRequest
}

type PixInstructions struct {
	Key          string `json:"key"`
	KeyType      string `json:"keyType"`
	QRCode       string `json:"qrCode,omitempty"`
	QRCodeBase64 string `json:"qrCodeBase64,omitempty"`
}

type PurchaseResponse struct {
	SaleID        string              `json:"saleId"`
	Amount        int64               `json:"amount"`
	Currency      string              `json:"currency"`
	Status        model.SaleStatus    `json:"status"`
	PaymentMethod model.PaymentMethod `json:"paymentMethod"`
	OrderID       string              `json:"orderId"`
	ApproveURL    string              `json:"approveUrl,omitempty"`
	Pix           *PixInstructions    `json:"pix,omitempty"`
}

type ProductDelivery struct {
	ProductID string `json:"productId"`
	Name      string `json:"name"`
	model.Delivery
}

type CaptureResponse struct {
	SaleID     string            `json:"saleId"`
	OrderID    string            `json:"orderId"`
	Status     model.SaleStatus  `json:"status"`
	Deliveries []ProductDelivery `json:"deliveries"`
}

// -------- sales --------

type SaleListQuery struct {
	Status    string `query:"status" validate:"omitempty,oneof=pending paid failed"`
	ProductID string `query:"productId"`
	Limit     int    `query:"limit" validate:"gte=0,lte=200"`
	Offset    int    `query:"offset" validate:"gte=0"`
}

type SaleListResponse struct {
	Sales  []*model.Sale `json:"sales"`
	Total  int64         `json:"total"`
	Limit  int           `json:"limit"`
	Offset int           `json:"offset"`
}

type UpdateSaleStatusRequest struct {
	Status string `json:"status" validate:"required,oneof=paid failed"`
}

// -------- settings --------

type SettingsRequest struct {
	PaypalClientID     *string `json:"paypalClientId" validate:"omitempty,max=255"`
	PaypalClientSecret *string `json:"paypalClientSecret" validate:"omitempty,max=255"`
	PaypalWebhookID    *string `json:"paypalWebhookId" validate:"omitempty,max=255"`
	PixKey             *string `json:"pixKey" validate:"omitempty,max=255"`
	PixKeyType         *string `json:"pixKeyType" validate:"omitempty,oneof=cpf cnpj email phone random"`
	BusinessName       *string `json:"businessName" validate:"omitempty,max=255"`
	LogoURL            *string `json:"logoUrl" validate:"omitempty,max=1024"`
	PrimaryColor       *string `json:"primaryColor" validate:"omitempty,hexcolor"`
	FacebookPixel      *string `json:"facebookPixel" validate:"omitempty,max=255"`
	UtmfyToken         *string `json:"utmfyToken" validate:"omitempty,max=255"`
}

// SettingsResponse never carries the PayPal secret, only whether one is stored.
type SettingsResponse struct {
	*model.Settings
	PaypalClientSecretSet bool `json:"paypalClientSecretSet"`
}

// -------- stats --------

type StatsQuery struct {
	Period    string `query:"period"`
	ProductID string `query:"productId"`
}

type StatsResponse struct {
	Period         string    `json:"period"`
	From           time.Time `json:"from"`
	To             time.Time `json:"to"`
	Revenue        int64     `json:"revenue"`
	PaidSales      int64     `json:"paidSales"`
	PendingSales   int64     `json:"pendingSales"`
	TotalSales     int64     `json:"totalSales"`
	AverageTicket  int64     `json:"averageTicket"`
	Views          int64     `json:"views"`
	ConversionRate float64   `json:"conversionRate"`
}

// -------- uploads --------

type UploadResponse struct {
	URL      string `json:"url"`
	Name     string `json:"name"`
	MimeType string `json:"mimeType"`
	Size     int64  `json:"size"`
}
