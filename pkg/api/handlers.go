package api

import (
	"context"
	"errors"
	"html/template"
	"mime"
	"net/http"

	"github.com/gin-gonic/gin"
	log "github.com/sirupsen/logrus"

	"hotel-receipt/pkg/config"
	"hotel-receipt/pkg/models"
	"hotel-receipt/pkg/response"
	"hotel-receipt/pkg/services"
)

// Handlers contains all HTTP handlers for the API
type Handlers struct {
	receiptService services.ReceiptService
	config         *config.Config
}

// NewHandlers creates a new Handlers instance
func NewHandlers(receiptService services.ReceiptService, cfg *config.Config) *Handlers {
	return &Handlers{
		receiptService: receiptService,
		config:         cfg,
	}
}

// RegisterRoutes wires every endpoint onto r
func (h *Handlers) RegisterRoutes(r gin.IRouter) {
	r.GET("/health", h.HealthCheck)
	r.GET("/", h.ShowForm)
	r.POST("/", h.SubmitForm)
	if h.config.LogoPath != "" {
		r.GET("/logo", h.Logo)
	}

	v1 := r.Group("/api/v1")
	v1.POST("/receipts", h.CreateReceipt)
	v1.POST("/receipts/image", h.DownloadReceipt)
}

// HealthCheck handler for monitoring
func (h *Handlers) HealthCheck(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{
		"status": "ok",
	})
}

// Logo serves the configured hotel logo
func (h *Handlers) Logo(c *gin.Context) {
	c.File(h.config.LogoPath)
}

// ShowForm renders an empty receipt form
func (h *Handlers) ShowForm(c *gin.Context) {
	c.HTML(http.StatusOK, "form.html", h.formView(services.NewSession()))
}

// SubmitForm runs a posted form through the receipt pipeline and renders
// either the form with inline errors or the finished receipt.
func (h *Handlers) SubmitForm(c *gin.Context) {
	session := services.NewSession()
	for _, f := range models.Fields {
		// Fields only holds known ids
		_ = session.Set(f, c.PostForm(string(f)))
	}

	delivery := &browserDelivery{}
	receipt, err := h.receiptService.Submit(c.Request.Context(), session, delivery)

	var verr *services.ValidationError
	switch {
	case errors.As(err, &verr):
		c.HTML(http.StatusUnprocessableEntity, "form.html", h.formView(session))
	case err != nil:
		_ = c.Error(err)
		c.HTML(statusFor(err), "form.html", h.formView(session))
	default:
		c.HTML(http.StatusOK, "receipt.html", receiptPage{
			HotelName: h.config.HotelName,
			Title:     services.FormTitle,
			Filename:  delivery.filename,
			ImageURL:  template.URL(receipt.DataURL),
			ShareURL:  delivery.link,
			ShortURL:  receipt.ShortURL,
		})
	}
}

// CreateReceipt is the JSON variant of SubmitForm
func (h *Handlers) CreateReceipt(c *gin.Context) {
	receipt, ok := h.submitJSON(c)
	if !ok {
		return
	}
	response.Success(c, http.StatusOK, receipt)
}

// DownloadReceipt returns the rendered receipt as a PNG attachment
func (h *Handlers) DownloadReceipt(c *gin.Context) {
	receipt, ok := h.submitJSON(c)
	if !ok {
		return
	}

	c.Header("Content-Disposition", mime.FormatMediaType("attachment", map[string]string{
		"filename": receipt.Filename,
	}))
	c.Header("X-Share-URL", receipt.ShareURL)
	c.Data(http.StatusOK, "image/png", receipt.PNG)
}

func (h *Handlers) submitJSON(c *gin.Context) (*services.Receipt, bool) {
	var form models.ReceiptForm
	if err := c.ShouldBindJSON(&form); err != nil {
		log.WithError(err).Debug("Error parsing receipt JSON")
		response.Error(c, http.StatusBadRequest, "INVALID_JSON", "Invalid JSON format")
		return nil, false
	}

	session := services.NewSession()
	session.Fill(form)

	receipt, err := h.receiptService.Submit(c.Request.Context(), session, &browserDelivery{})

	var verr *services.ValidationError
	switch {
	case errors.As(err, &verr):
		response.ErrorWithDetails(c, http.StatusUnprocessableEntity, "VALIDATION_ERROR", "Invalid receipt form", verr.Errors)
		return nil, false
	case err != nil:
		_ = c.Error(err)
		response.Error(c, statusFor(err), "RECEIPT_ERROR", "Could not generate receipt")
		return nil, false
	}
	return receipt, true
}

func statusFor(err error) int {
	switch {
	case errors.Is(err, services.ErrSubmitInFlight):
		return http.StatusConflict
	case errors.Is(err, context.Canceled), errors.Is(err, context.DeadlineExceeded):
		return http.StatusServiceUnavailable
	}
	return http.StatusInternalServerError
}

// browserDelivery records the download and share actions so the response can
// hand them to the browser, which performs them.
type browserDelivery struct {
	filename string
	link     string
}

func (d *browserDelivery) Download(_ context.Context, filename string, _ []byte) error {
	d.filename = filename
	return nil
}

func (d *browserDelivery) Open(_ context.Context, link string) error {
	d.link = link
	return nil
}
