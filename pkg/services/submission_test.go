package services

import (
	"context"
	"errors"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"hotel-receipt/pkg/config"
	"hotel-receipt/pkg/models"
	"hotel-receipt/pkg/render"
)

type fakeRasterizer struct {
	session *Session
	err     error
	block   chan struct{}
	started chan struct{}

	mu    sync.Mutex
	views []render.View
	// submit visibility observed on the session while rasterizing
	sessionVisible []bool
}

func (f *fakeRasterizer) Rasterize(ctx context.Context, v render.View) ([]byte, error) {
	f.mu.Lock()
	f.views = append(f.views, v)
	if f.session != nil {
		f.sessionVisible = append(f.sessionVisible, f.session.SubmitVisible())
	}
	f.mu.Unlock()

	if f.started != nil {
		close(f.started)
	}
	if f.block != nil {
		<-f.block
	}
	if f.err != nil {
		return nil, f.err
	}
	return []byte("png"), nil
}

type recordingDelivery struct {
	steps       []string
	filename    string
	link        string
	downloadErr error
}

func (d *recordingDelivery) Download(_ context.Context, filename string, _ []byte) error {
	d.steps = append(d.steps, "download")
	d.filename = filename
	return d.downloadErr
}

func (d *recordingDelivery) Open(_ context.Context, link string) error {
	d.steps = append(d.steps, "open")
	d.link = link
	return nil
}

type fakeShortener struct {
	url string
	err error
}

func (f fakeShortener) CreateShortLink(context.Context, string) (string, error) {
	return f.url, f.err
}

func testConfig() *config.Config {
	return &config.Config{
		HotelName:       "Hotel Raglan",
		WhatsAppBaseURL: "https://wa.me",
		WhatsAppMessage: config.DefaultWhatsAppMessage,
	}
}

func filledSession(t *testing.T) *Session {
	t.Helper()
	s := NewSession()
	s.Fill(validForm())
	return s
}

func TestSubmitHappyPath(t *testing.T) {
	s := filledSession(t)
	r := &fakeRasterizer{session: s}
	d := &recordingDelivery{}
	svc := NewReceiptService(r, nil, nil, testConfig())

	receipt, err := svc.Submit(context.Background(), s, d)
	require.NoError(t, err)

	assert.Equal(t, "AnaLopez", receipt.Filename)
	assert.Equal(t, []byte("png"), receipt.PNG)
	assert.Equal(t, render.DataURL([]byte("png")), receipt.DataURL)
	assert.Equal(t, "https://wa.me/5551234567?text=Hola%2C%20te%20adjunto%20el%20comprobante%20de%20pago.", receipt.ShareURL)
	assert.Empty(t, receipt.ShortURL)

	assert.Equal(t, []string{"download", "open"}, d.steps)
	assert.Equal(t, "AnaLopez", d.filename)
	assert.Equal(t, receipt.ShareURL, d.link)

	require.Len(t, r.views, 1)
	assert.False(t, r.views[0].SubmitVisible)
	assert.Equal(t, []bool{false}, r.sessionVisible)
	assert.True(t, s.SubmitVisible())
	assert.Empty(t, s.Errors())
}

func TestSubmitRendersDisplayValues(t *testing.T) {
	s := filledSession(t)
	r := &fakeRasterizer{}
	svc := NewReceiptService(r, nil, nil, testConfig())

	_, err := svc.Submit(context.Background(), s, &recordingDelivery{})
	require.NoError(t, err)

	v := r.views[0]
	assert.Equal(t, "Hotel Raglan", v.HotelName)
	assert.Equal(t, FormTitle, v.Title)
	require.Len(t, v.Rows, len(models.Fields))
	assert.Equal(t, render.Row{Label: "Nombre:", Value: "Ana"}, v.Rows[0])
	assert.Equal(t, "01/03/2024", v.Rows[3].Value)
	assert.Equal(t, "Doble Deluxe", v.Rows[5].Value)
}

func TestSubmitValidationFailure(t *testing.T) {
	s := filledSession(t)
	require.NoError(t, s.Set(models.FieldCelular, "12345"))
	r := &fakeRasterizer{}
	d := &recordingDelivery{}
	svc := NewReceiptService(r, nil, nil, testConfig())

	receipt, err := svc.Submit(context.Background(), s, d)
	assert.Nil(t, receipt)

	var verr *ValidationError
	require.ErrorAs(t, err, &verr)
	assert.Equal(t, models.ErrorMap{models.FieldCelular: MsgPhoneLength}, verr.Errors)
	assert.Equal(t, verr.Errors, s.Errors())
	assert.Empty(t, r.views)
	assert.Empty(t, d.steps)
	assert.True(t, s.SubmitVisible())
}

func TestSubmitRasterizeFailureRestoresSubmit(t *testing.T) {
	s := filledSession(t)
	boom := errors.New("boom")
	d := &recordingDelivery{}
	svc := NewReceiptService(&fakeRasterizer{err: boom}, nil, nil, testConfig())

	_, err := svc.Submit(context.Background(), s, d)
	assert.ErrorIs(t, err, boom)
	assert.True(t, s.SubmitVisible())
	assert.Empty(t, d.steps)

	// the session accepts a new submission afterwards
	_, err = NewReceiptService(&fakeRasterizer{}, nil, nil, testConfig()).Submit(context.Background(), s, d)
	assert.NoError(t, err)
}

func TestSubmitDownloadFailureSkipsShare(t *testing.T) {
	s := filledSession(t)
	d := &recordingDelivery{downloadErr: errors.New("disk full")}
	svc := NewReceiptService(&fakeRasterizer{}, nil, nil, testConfig())

	_, err := svc.Submit(context.Background(), s, d)
	assert.Error(t, err)
	assert.Equal(t, []string{"download"}, d.steps)
}

func TestSubmitInFlightGuard(t *testing.T) {
	s := filledSession(t)
	r := &fakeRasterizer{block: make(chan struct{}), started: make(chan struct{})}
	svc := NewReceiptService(r, nil, nil, testConfig())

	errCh := make(chan error, 1)
	go func() {
		_, err := svc.Submit(context.Background(), s, &recordingDelivery{})
		errCh <- err
	}()
	<-r.started

	_, err := svc.Submit(context.Background(), s, &recordingDelivery{})
	assert.ErrorIs(t, err, ErrSubmitInFlight)

	close(r.block)
	require.NoError(t, <-errCh)
	assert.Len(t, r.views, 1)
}

func TestSubmitShortLink(t *testing.T) {
	s := filledSession(t)
	svc := NewReceiptService(&fakeRasterizer{}, fakeShortener{url: "https://go.example/x"}, nil, testConfig())

	receipt, err := svc.Submit(context.Background(), s, &recordingDelivery{})
	require.NoError(t, err)
	assert.Equal(t, "https://go.example/x", receipt.ShortURL)
	assert.Contains(t, receipt.ShareURL, "https://wa.me/")
}

func TestSubmitShortLinkFailureIgnored(t *testing.T) {
	s := filledSession(t)
	d := &recordingDelivery{}
	svc := NewReceiptService(&fakeRasterizer{}, fakeShortener{err: errors.New("down")}, nil, testConfig())

	receipt, err := svc.Submit(context.Background(), s, d)
	require.NoError(t, err)
	assert.Empty(t, receipt.ShortURL)
	assert.Equal(t, []string{"download", "open"}, d.steps)
}

func TestSubmitWithRealRasterizer(t *testing.T) {
	s := filledSession(t)
	svc := NewReceiptService(render.NewRasterizer(), nil, nil, testConfig())

	receipt, err := svc.Submit(context.Background(), s, &recordingDelivery{})
	require.NoError(t, err)
	assert.Equal(t, []byte("\x89PNG"), receipt.PNG[:4])
}
