package services

import (
	"context"
	"fmt"
	"image"

	log "github.com/sirupsen/logrus"

	"hotel-receipt/pkg/config"
	"hotel-receipt/pkg/models"
	"hotel-receipt/pkg/render"
	"hotel-receipt/pkg/utils"
)

const (
	FormTitle   = "Comprobante de Pago"
	SubmitLabel = "Enviar Comprobante"
)

// Rasterizer converts the visible form into PNG bytes
type Rasterizer interface {
	Rasterize(ctx context.Context, v render.View) ([]byte, error)
}

// LinkShortener creates a short alias for a URL
type LinkShortener interface {
	CreateShortLink(ctx context.Context, originalURL string) (string, error)
}

// Delivery hands the finished receipt to the user: the image as a download
// and the share link opened in a new browsing context.
type Delivery interface {
	Download(ctx context.Context, filename string, pngData []byte) error
	Open(ctx context.Context, link string) error
}

// Receipt is the outcome of a successful submission
type Receipt struct {
	Filename string `json:"filename"`
	PNG      []byte `json:"-"`
	DataURL  string `json:"image"`
	ShareURL string `json:"share_url"`
	ShortURL string `json:"short_url,omitempty"`
}

// ReceiptService defines the interface for submitting a receipt form
type ReceiptService interface {
	Submit(ctx context.Context, session *Session, delivery Delivery) (*Receipt, error)
	View(session *Session) render.View
}

type receiptServiceImpl struct {
	rasterizer Rasterizer
	shortener  LinkShortener
	logo       image.Image
	config     *config.Config
}

// NewReceiptService creates a new receipt service. shortener and logo may be
// nil.
func NewReceiptService(
	rasterizer Rasterizer,
	shortener LinkShortener,
	logo image.Image,
	config *config.Config,
) ReceiptService {
	return &receiptServiceImpl{
		rasterizer: rasterizer,
		shortener:  shortener,
		logo:       logo,
		config:     config,
	}
}

// Submit validates the form, renders it, downloads the image and opens the
// share link, in that order. Validation failures are stored in the session
// and returned as *ValidationError without rendering anything.
func (s *receiptServiceImpl) Submit(ctx context.Context, session *Session, delivery Delivery) (*Receipt, error) {
	done, err := session.begin()
	if err != nil {
		return nil, err
	}
	defer done()

	if errs := session.validate(); len(errs) > 0 {
		log.WithField("fields", len(errs)).Debug("Receipt form rejected")
		return nil, &ValidationError{Errors: errs}
	}

	form := session.Form()
	logger := log.WithField("phone", utils.PhoneRef(form.Celular))
	logger.Info("Processing receipt submission")

	pngData, err := s.render(ctx, session)
	if err != nil {
		logger.WithError(err).Error("Error rendering receipt")
		return nil, err
	}

	receipt := &Receipt{
		Filename: form.Filename(),
		PNG:      pngData,
		DataURL:  render.DataURL(pngData),
		ShareURL: BuildShareLink(s.config.WhatsAppBaseURL, form.Celular, s.config.WhatsAppMessage),
	}

	if err := delivery.Download(ctx, receipt.Filename, pngData); err != nil {
		return nil, fmt.Errorf("error downloading receipt: %w", err)
	}

	if s.shortener != nil {
		short, err := s.shortener.CreateShortLink(ctx, receipt.ShareURL)
		if err != nil {
			logger.WithError(err).Warn("Error shortening share link")
		} else {
			receipt.ShortURL = short
		}
	}

	if err := delivery.Open(ctx, receipt.ShareURL); err != nil {
		return nil, fmt.Errorf("error opening share link: %w", err)
	}

	logger.WithField("bytes", len(pngData)).Info("Receipt generated")
	return receipt, nil
}

// render captures the form with the submit control hidden. The control is
// shown again whatever the outcome.
func (s *receiptServiceImpl) render(ctx context.Context, session *Session) ([]byte, error) {
	restore := session.hideSubmit()
	defer restore()

	pngData, err := s.rasterizer.Rasterize(ctx, s.View(session))
	if err != nil {
		return nil, fmt.Errorf("error rasterizing receipt: %w", err)
	}
	return pngData, nil
}

// View builds what the form currently shows on screen
func (s *receiptServiceImpl) View(session *Session) render.View {
	form := session.Form()
	errs := session.Errors()

	rows := make([]render.Row, 0, len(models.Fields))
	for _, f := range models.Fields {
		rows = append(rows, render.Row{
			Label: f.Label(),
			Value: form.DisplayValue(f),
			Error: errs[f],
		})
	}

	return render.View{
		HotelName:     s.config.HotelName,
		Logo:          s.logo,
		Title:         FormTitle,
		Rows:          rows,
		SubmitLabel:   SubmitLabel,
		SubmitVisible: session.SubmitVisible(),
	}
}
