// Package cli exposes the receipt pipeline as a command line tool.
package cli

import (
	"context"
	"errors"
	"fmt"
	"image"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/cobra"

	"hotel-receipt/pkg/clients/shortio"
	"hotel-receipt/pkg/config"
	"hotel-receipt/pkg/models"
	"hotel-receipt/pkg/render"
	"hotel-receipt/pkg/services"
)

// ErrInvalidForm is returned after the field errors have been printed
var ErrInvalidForm = errors.New("invalid receipt form")

var flagNames = map[models.Field]string{
	models.FieldNombre:         "nombre",
	models.FieldApellido:       "apellido",
	models.FieldCelular:        "celular",
	models.FieldFechaEntrada:   "entrada",
	models.FieldFechaSalida:    "salida",
	models.FieldTipoHabitacion: "habitacion",
	models.FieldTotal:          "total",
}

// NewCommand builds the receipt command using cfg
func NewCommand(cfg *config.Config) *cobra.Command {
	values := make(map[models.Field]*string, len(models.Fields))
	var outDir string

	cmd := &cobra.Command{
		Use:   "receipt",
		Short: "Render a hotel payment receipt and print its WhatsApp link",
		Long: `receipt validates the guest's payment details, renders the filled form
to a PNG named after the guest and prints the wa.me link that opens a
WhatsApp chat with the guest's number.`,
		SilenceUsage: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			session := services.NewSession()
			for _, f := range models.Fields {
				// Fields only holds known ids
				_ = session.Set(f, *values[f])
			}
			return run(cmd.Context(), cfg, session, outDir, cmd.OutOrStdout(), cmd.ErrOrStderr())
		},
	}

	for _, f := range models.Fields {
		values[f] = cmd.Flags().String(flagNames[f], "", f.Label())
	}
	cmd.Flags().StringVarP(&outDir, "out", "o", ".", "directory the receipt image is written to")

	return cmd
}

func run(ctx context.Context, cfg *config.Config, session *services.Session, outDir string, stdout, stderr io.Writer) error {
	if ctx == nil {
		ctx = context.Background()
	}

	var shortener services.LinkShortener
	if cfg.ShortLinksEnabled() {
		shortener = shortio.NewClient(cfg.ShortIOAPIKey, cfg.ShortIODomain)
	}
	svc := services.NewReceiptService(render.NewRasterizer(), shortener, loadLogo(cfg, stderr), cfg)

	receipt, err := svc.Submit(ctx, session, &fileDelivery{dir: outDir, out: stdout})
	if err == nil && receipt.ShortURL != "" {
		fmt.Fprintf(stdout, "Short link: %s\n", receipt.ShortURL)
	}

	var verr *services.ValidationError
	if errors.As(err, &verr) {
		for _, f := range models.Fields {
			if msg, ok := verr.Errors[f]; ok {
				fmt.Fprintf(stderr, "--%s: %s\n", flagNames[f], msg)
			}
		}
		return ErrInvalidForm
	}
	return err
}

func loadLogo(cfg *config.Config, stderr io.Writer) image.Image {
	if cfg.LogoPath == "" {
		return nil
	}
	img, err := render.LoadLogo(cfg.LogoPath)
	if err != nil {
		fmt.Fprintf(stderr, "warning: %v\n", err)
		return nil
	}
	return img
}

// fileDelivery saves the receipt image to disk and prints the share link
type fileDelivery struct {
	dir string
	out io.Writer
}

func (d *fileDelivery) Download(_ context.Context, filename string, pngData []byte) error {
	path := filepath.Join(d.dir, filename)
	// the name comes from user input and must stay inside --out
	rel, err := filepath.Rel(d.dir, path)
	if err != nil || rel == ".." || strings.HasPrefix(rel, ".."+string(filepath.Separator)) {
		return fmt.Errorf("receipt name %q escapes output directory %s", filename, d.dir)
	}

	if err := os.MkdirAll(d.dir, 0o755); err != nil {
		return fmt.Errorf("error creating output directory: %w", err)
	}
	if err := os.WriteFile(path, pngData, 0o644); err != nil {
		return fmt.Errorf("error writing receipt: %w", err)
	}
	fmt.Fprintf(d.out, "Receipt saved to %s\n", path)
	return nil
}

func (d *fileDelivery) Open(_ context.Context, link string) error {
	fmt.Fprintf(d.out, "Share on WhatsApp: %s\n", link)
	return nil
}
