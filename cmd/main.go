package main

import (
	"context"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"github.com/google/uuid"

	"github.com/rfarias/partida/internal/config"
	"github.com/rfarias/partida/internal/httpapi"
	"github.com/rfarias/partida/internal/ledger"
	"github.com/rfarias/partida/internal/service/account"
	"github.com/rfarias/partida/internal/service/journal"
	"github.com/rfarias/partida/internal/statement"
	"github.com/rfarias/partida/internal/storage/memory"
	pgstore "github.com/rfarias/partida/internal/storage/postgres"
)

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	cfg, err := config.Load()
	if err != nil {
		slog.Error("failed to load config", "err", err)
		os.Exit(1)
	}
	logger := buildLogger(cfg.LogLevel, cfg.LogFormat)
	slog.SetDefault(logger)

	opts := statement.Options{
		AmountTolerance:     cfg.Classifier.AmountTolerance,
		MinTokenLen:         cfg.Classifier.MinTokenLen,
		AutoApplyConfidence: cfg.Classifier.AutoApplyConfidence,
	}

	var handler http.Handler
	var closeFn func()

	if dsn := strings.TrimSpace(cfg.DatabaseURL); dsn != "" {
		pg, err := pgstore.Open(ctx, dsn)
		if err != nil {
			logger.Error("failed to connect to postgres", "err", err)
			os.Exit(1)
		}
		closeFn = pg.Close
		if err := ensureSettings(ctx, pg, cfg); err != nil {
			logger.Error("failed to bootstrap settings", "err", err)
			os.Exit(1)
		}
		accSvc := account.New(pg, pg)
		jrnSvc := journal.New(pg, pg)
		handler = httpapi.New(accSvc, jrnSvc, pg, pg, pg, cfg.Currency, opts, logger).Handler()
		logger.Info("storage backend: postgres")
	} else {
		store := memory.New()
		store.SeedTree(defaultChart())
		store.SeedSettings(defaultSettings(cfg))
		accSvc := account.New(store, store)
		jrnSvc := journal.New(store, store)
		handler = httpapi.New(accSvc, jrnSvc, store, store, store, cfg.Currency, opts, logger).Handler()
		logger.Info("storage backend: memory")
	}

	srv := &http.Server{
		Addr:              cfg.ServerAddress,
		Handler:           handler,
		ReadTimeout:       5 * time.Second,
		ReadHeaderTimeout: 5 * time.Second,
		WriteTimeout:      10 * time.Second,
		IdleTimeout:       60 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		logger.Info("bookkeeping service listening", "addr", srv.Addr)
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			errCh <- err
		}
	}()

	select {
	case <-ctx.Done():
		ctxShutdown, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		if err := srv.Shutdown(ctxShutdown); err != nil {
			logger.Error("server shutdown error", "err", err)
		}
	case err := <-errCh:
		logger.Error("server error", "err", err)
	}
	if closeFn != nil {
		closeFn()
	}
}

// ensureSettings writes the defaults into an empty postgres store so the
// mask-driven endpoints work on first boot.
func ensureSettings(ctx context.Context, pg *pgstore.Store, cfg *config.Config) error {
	current, err := pg.Settings(ctx)
	if err != nil {
		return err
	}
	if current.Mask != "" {
		return nil
	}
	return pg.SaveSettings(ctx, defaultSettings(cfg))
}

func defaultSettings(cfg *config.Config) ledger.Settings {
	return ledger.Settings{
		Mask:     cfg.DefaultMask,
		Currency: cfg.Currency,
		BankProfiles: []ledger.BankProfile{{
			ID:                 uuid.NewString(),
			Name:               "Banco Principal",
			LinkedAccountCode:  "1.1.01.001",
			DefaultRevenueCode: "4.9.01.001",
			DefaultExpenseCode: "5.9.01.001",
			Default:            true,
			Active:             true,
		}},
	}
}

// defaultChart seeds a minimal Brazilian personal chart of accounts.
func defaultChart() []ledger.Account {
	node := func(code, name string, kind ledger.Kind, cat ledger.Category, children ...ledger.Account) ledger.Account {
		return ledger.Account{
			ID: uuid.New(), Code: code, Name: name, Kind: kind, Category: cat,
			Active: true, Children: children,
		}
	}
	return []ledger.Account{
		node("1", "Ativo", ledger.KindSynthetic, ledger.CategoryAsset,
			node("1.1", "Ativo Circulante", ledger.KindSynthetic, ledger.CategoryAsset,
				node("1.1.01", "Bancos", ledger.KindSynthetic, ledger.CategoryAsset,
					node("1.1.01.001", "Banco Corrente", ledger.KindAnalytic, ledger.CategoryAsset),
				),
			),
		),
		node("2", "Passivo", ledger.KindSynthetic, ledger.CategoryLiability,
			node("2.1", "Passivo Circulante", ledger.KindSynthetic, ledger.CategoryLiability,
				node("2.1.01", "Cartões de Crédito", ledger.KindSynthetic, ledger.CategoryLiability,
					node("2.1.01.001", "Cartão de Crédito", ledger.KindAnalytic, ledger.CategoryLiability),
				),
			),
		),
		node("3", "Patrimônio Líquido", ledger.KindSynthetic, ledger.CategoryEquity,
			node("3.1", "Capital", ledger.KindSynthetic, ledger.CategoryEquity,
				node("3.1.01", "Capital Próprio", ledger.KindSynthetic, ledger.CategoryEquity,
					node("3.1.01.001", "Saldos de Abertura", ledger.KindAnalytic, ledger.CategoryEquity),
				),
			),
		),
		node("4", "Receitas", ledger.KindSynthetic, ledger.CategoryRevenue,
			node("4.1", "Receitas do Trabalho", ledger.KindSynthetic, ledger.CategoryRevenue,
				node("4.1.01", "Salários", ledger.KindSynthetic, ledger.CategoryRevenue,
					node("4.1.01.001", "Salário", ledger.KindAnalytic, ledger.CategoryRevenue),
				),
			),
			node("4.9", "Outras Receitas", ledger.KindSynthetic, ledger.CategoryRevenue,
				node("4.9.01", "Diversas", ledger.KindSynthetic, ledger.CategoryRevenue,
					node("4.9.01.001", "Outras Receitas", ledger.KindAnalytic, ledger.CategoryRevenue),
				),
			),
		),
		node("5", "Despesas", ledger.KindSynthetic, ledger.CategoryExpense,
			node("5.1", "Moradia", ledger.KindSynthetic, ledger.CategoryExpense,
				node("5.1.01", "Aluguel e Condomínio", ledger.KindSynthetic, ledger.CategoryExpense,
					node("5.1.01.001", "Aluguel", ledger.KindAnalytic, ledger.CategoryExpense),
				),
			),
			node("5.3", "Alimentação", ledger.KindSynthetic, ledger.CategoryExpense,
				node("5.3.01", "Mercado", ledger.KindSynthetic, ledger.CategoryExpense,
					node("5.3.01.001", "Supermercado", ledger.KindAnalytic, ledger.CategoryExpense),
				),
			),
			node("5.9", "Outras Despesas", ledger.KindSynthetic, ledger.CategoryExpense,
				node("5.9.01", "Diversas", ledger.KindSynthetic, ledger.CategoryExpense,
					node("5.9.01.001", "Outras Despesas", ledger.KindAnalytic, ledger.CategoryExpense),
				),
			),
		),
	}
}

func parseLogLevel(s string) slog.Leveler {
	switch strings.ToLower(s) {
	case "debug":
		return slog.LevelDebug
	case "warn", "warning":
		return slog.LevelWarn
	case "error", "err":
		return slog.LevelError
	default:
		return slog.LevelInfo
	}
}

func buildLogger(level, format string) *slog.Logger {
	lvl := parseLogLevel(level)
	if strings.ToLower(strings.TrimSpace(format)) == "text" {
		return slog.New(slog.NewTextHandler(os.Stdout, &slog.HandlerOptions{Level: lvl}))
	}
	return slog.New(slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{Level: lvl}))
}
