// Command personal-site runs the website server. All branding and secrets
// come from environment variables; SESSION_SECRET is the only required one.
package main

import (
	"context"
	"log"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	site "github.com/christinakneis/personal-site"
	"github.com/christinakneis/personal-site/views"
)

// version is set at build time via ldflags.
var version = "dev"

func main() {
	cfg := site.SiteConfig{
		Name:        site.EnvOr("SITE_NAME", "Christina Kneis"),
		URL:         strings.TrimSuffix(site.EnvOr("SITE_URL", "http://localhost:3000"), "/"),
		Description: site.EnvOr("SITE_DESCRIPTION", "Personal website and blog"),
		Author:      site.EnvOr("SITE_AUTHOR", "Christina Kneis"),

		Addr:         site.EnvOr("ADDR", ":3000"),
		DatabasePath: site.EnvOr("DATABASE_PATH", "data/site.db"),
		StaticDir:    site.EnvOr("STATIC_DIR", "public"),

		SessionSecret: site.MustEnv("SESSION_SECRET"),
		CookieSecure:  strings.EqualFold(site.EnvOr("COOKIE_SECURE", ""), "true"),
	}

	app := site.New(cfg, views.Default(cfg))
	defer app.Close()

	go func() {
		quit := make(chan os.Signal, 1)
		signal.Notify(quit, os.Interrupt, syscall.SIGTERM)
		<-quit
		ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		if err := app.Echo.Shutdown(ctx); err != nil {
			log.Printf("shutdown: %v", err)
		}
	}()

	log.Printf("personal-site %s listening on %s", version, cfg.Addr)
	if err := app.Start(); err != nil {
		log.Fatal(err)
	}
}
