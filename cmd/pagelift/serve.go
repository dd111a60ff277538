package main

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/spf13/cobra"

	"github.com/pagelift-dev/pagelift"
	"github.com/pagelift-dev/pagelift/internal/config"
	"github.com/pagelift-dev/pagelift/pkg/dom"
	"github.com/pagelift-dev/pagelift/pkg/live"
	"github.com/pagelift-dev/pagelift/pkg/upload"
)

func serveCmd() *cobra.Command {
	var (
		addr      string
		uploadDir string
	)

	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Serve the enhanced demo page",
		Long: `Serve a demo page with an enhanced contact form.

The page document lives on the server; attached browsers receive
mutations over the /live WebSocket endpoint.`,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := config.Load(".")
			if err != nil {
				return err
			}
			if cmd.Flags().Changed("addr") {
				cfg.Server.Addr = addr
			}
			if cmd.Flags().Changed("upload-dir") {
				cfg.Upload.Dir = uploadDir
			}
			return runServe(cfg)
		},
	}

	cmd.Flags().StringVarP(&addr, "addr", "a", config.DefaultAddr, "Listen address")
	cmd.Flags().StringVar(&uploadDir, "upload-dir", config.DefaultUploadDir, "Temp upload directory")

	return cmd
}

func runServe(cfg *config.Config) error {
	logger := slog.New(slog.NewTextHandler(os.Stderr, nil))
	slog.SetDefault(logger)

	doc := dom.New(demoPage())

	// The broker owns the document's event loop; timers and submission
	// continuations reach it through the dispatcher it installs.
	broker := live.NewBroker(doc)

	opts := []pagelift.Option{
		pagelift.WithLogger(logger),
		pagelift.WithMetrics(),
	}
	if d := cfg.NotificationDuration(); d > 0 {
		opts = append(opts, pagelift.WithNotificationDuration(d))
	}
	if d := cfg.ScrollDuration(); d > 0 {
		opts = append(opts, pagelift.WithScrollDuration(d))
	}

	_, err := pagelift.Setup(doc, opts...)
	if err != nil {
		return err
	}
	broker.Start()
	defer broker.Stop()

	store, err := upload.NewDiskStore(cfg.Upload.Dir, cfg.Upload.MaxFileSize)
	if err != nil {
		return fmt.Errorf("upload store: %w", err)
	}

	r := chi.NewRouter()
	r.Use(middleware.RequestID)
	r.Use(middleware.Recoverer)

	r.Get("/", func(w http.ResponseWriter, req *http.Request) {
		w.Header().Set("Content-Type", "text/html; charset=utf-8")
		dom.RenderTo(w, doc.Root())
	})
	r.Handle("/live", broker.Handler())
	r.Post("/submit", handleSubmit(logger, store))
	r.Handle("/upload", upload.Handler(store))
	r.Handle("/metrics", promhttp.Handler())

	srv := &http.Server{Addr: cfg.Server.Addr, Handler: r}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	go func() {
		<-ctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		srv.Shutdown(shutdownCtx)
	}()

	printBanner()
	success("serving on %s", cfg.Server.Addr)
	info("demo page:  http://localhost%s/", cfg.Server.Addr)
	info("metrics:    http://localhost%s/metrics", cfg.Server.Addr)

	if err := srv.ListenAndServe(); !errors.Is(err, http.ErrServerClosed) {
		return err
	}
	return nil
}

// handleSubmit receives relayed form submissions. Attachments arrive as
// temp IDs and are claimed here.
func handleSubmit(logger *slog.Logger, store upload.Store) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if err := r.ParseForm(); err != nil {
			http.Error(w, "Bad form", http.StatusBadRequest)
			return
		}

		logger.Info("submission received",
			"name", r.PostForm.Get("name"),
			"email", r.PostForm.Get("email"),
			"requested_with", r.Header.Get("X-Requested-With"))

		if tempID := upload.TempID(r.PostForm, "attachment"); tempID != "" {
			file, err := store.Claim(r.Context(), tempID)
			if err != nil {
				logger.Warn("attachment claim failed", "temp_id", tempID, "error", err)
			} else {
				logger.Info("attachment claimed",
					"filename", file.Filename,
					"size", file.Size)
				file.Close()
			}
		}

		w.Header().Set("Content-Type", "application/json")
		fmt.Fprint(w, `{"status":"ok"}`)
	}
}

// demoPage builds the demo document: in-page navigation plus an enhanced
// contact form.
func demoPage() *dom.Node {
	return dom.Html(
		dom.Head(
			dom.Meta(dom.Attr{Key: "charset", Value: "utf-8"}),
			dom.Title("Pagelift Demo"),
		),
		dom.Body(
			dom.Header(
				dom.H1("Pagelift"),
				dom.Nav(
					dom.A(dom.Href("#about"), "About"),
					dom.A(dom.Href("#contact"), "Contact"),
				),
			),
			dom.Main(
				dom.Section(dom.ID("about"),
					dom.H2("About"),
					dom.P("Server-driven enhancement for static pages."),
				),
				dom.Section(dom.ID("contact"),
					dom.H2("Contact"),
					dom.Form(dom.Action("/submit"), dom.Method("post"),
						dom.Label(dom.For("name"), "Name"),
						dom.Input(dom.ID("name"), dom.Type("text"), dom.Name("name"), dom.Required()),

						dom.Label(dom.For("email"), "Email"),
						dom.Input(dom.ID("email"), dom.Type("email"), dom.Name("email"), dom.Required()),

						dom.Label(dom.For("phone"), "Phone"),
						dom.Input(dom.ID("phone"), dom.Type("tel"), dom.Name("phone")),

						dom.Label(dom.For("message"), "Message"),
						dom.Textarea(dom.ID("message"), dom.Name("message"), dom.Required(), dom.MinLength(10), dom.Rows(5)),

						dom.Button(dom.Type("submit"), "Submit"),
					),
				),
			),
			dom.Footer(
				dom.A(dom.Href("#about"), "Back to top"),
			),
		),
	)
}
