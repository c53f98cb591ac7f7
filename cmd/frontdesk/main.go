package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"

	"github.com/rs/zerolog"
	"github.com/spf13/cobra"

	"github.com/medicare/frontdesk/internal/config"
	"github.com/medicare/frontdesk/internal/domain/assistant"
	"github.com/medicare/frontdesk/internal/domain/billing"
	"github.com/medicare/frontdesk/internal/domain/identifier"
	"github.com/medicare/frontdesk/internal/domain/identity"
	"github.com/medicare/frontdesk/internal/domain/patient"
	"github.com/medicare/frontdesk/internal/domain/pharmacy"
	"github.com/medicare/frontdesk/internal/domain/ward"
	"github.com/medicare/frontdesk/internal/frontdesk"
	"github.com/medicare/frontdesk/internal/platform/logging"
	"github.com/medicare/frontdesk/internal/platform/memstore"
	"github.com/medicare/frontdesk/internal/platform/metrics"
	"github.com/medicare/frontdesk/internal/platform/seed"
	"github.com/medicare/frontdesk/internal/platform/validation"
	"github.com/medicare/frontdesk/pkg/money"
)

const (
	exitOK       = 0
	exitInternal = 1
	exitInvalid  = 2
	exitNotFound = 3
	exitConflict = 4
)

func main() {
	os.Exit(run(context.Background(), os.Args[1:], os.Stdout, os.Stderr))
}

func run(ctx context.Context, args []string, stdout, stderr io.Writer) int {
	a := &app{out: stdout, errOut: stderr}
	root := a.rootCmd()
	root.SetArgs(args)
	root.SetOut(stdout)
	root.SetErr(stderr)
	if err := root.ExecuteContext(ctx); err != nil {
		fmt.Fprintln(stderr, "error:", err)
		return exitCode(err)
	}
	return exitOK
}

// app holds what every command needs once configuration is loaded.
type app struct {
	out    io.Writer
	errOut io.Writer
	asJSON bool
	save   bool

	cfg     *config.Config
	log     zerolog.Logger
	metrics *metrics.Metrics
	desk    *frontdesk.Desk
}

func (a *app) rootCmd() *cobra.Command {
	root := &cobra.Command{
		Use:           "frontdesk",
		Short:         "Hospital front-desk tools",
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			return a.setup(cmd.Context())
		},
		PersistentPostRunE: func(cmd *cobra.Command, args []string) error {
			return a.finish(cmd.Context())
		},
	}
	root.SetFlagErrorFunc(func(_ *cobra.Command, err error) error {
		return fmt.Errorf("%w: %v", errUsage, err)
	})
	root.PersistentFlags().BoolVar(&a.asJSON, "json", false, "Print results as JSON")
	root.PersistentFlags().BoolVar(&a.save, "save", false, "Write the resulting state back to SEED_FILE")

	root.AddCommand(
		a.estimateCmd(),
		a.recommendCmd(),
		a.doctorCmd(),
		a.patientCmd(),
		a.ledgerCmd(),
		a.bedCmd(),
		a.invoiceCmd(),
		a.medicineCmd(),
		a.summaryCmd(),
		a.askCmd(),
		a.availabilityCmd(),
	)
	return root
}

func (a *app) setup(ctx context.Context) error {
	cfg, err := config.Load()
	if err != nil {
		return err
	}
	if err := cfg.Validate(); err != nil {
		return fmt.Errorf("%w: %v", errInvalidConfig, err)
	}
	logger, err := logging.New(logging.Options{
		Format: cfg.LogFormat,
		Level:  cfg.LogLevel,
		Env:    cfg.Env,
		App:    "frontdesk",
		Out:    a.errOut,
	})
	if err != nil {
		return fmt.Errorf("%w: %v", errInvalidConfig, err)
	}
	if a.save && cfg.SeedFile == "" {
		return fmt.Errorf("%w: --save needs SEED_FILE", errInvalidConfig)
	}

	data, err := seed.Load(cfg.SeedFile)
	if err != nil {
		return err
	}

	var gen assistant.Generator
	if cfg.AIEnabled() {
		client, err := assistant.NewGeminiClient(ctx, cfg.AIEndpoint, cfg.AIModel, cfg.AIAPIKey)
		if err != nil {
			return fmt.Errorf("%w: %v", errInvalidConfig, err)
		}
		gen = client
	} else {
		logger.Debug().Msg("AI_API_KEY not set, assistant disabled")
	}

	rate := money.RateFromPercent(cfg.DefaultTaxRate)
	a.cfg = cfg
	a.log = logger
	a.metrics = metrics.New()
	a.desk = frontdesk.New(data, frontdesk.Options{
		Logger:           logger,
		Metrics:          a.metrics,
		Generator:        gen,
		AssistantTimeout: cfg.AITimeout,
		TaxRate:          &rate,
		DoctorIDAttempts: cfg.DoctorIDAttempts,
	})
	return nil
}

// finish persists state and metrics after a successful command.
func (a *app) finish(ctx context.Context) error {
	if a.save {
		snap, err := a.desk.Snapshot(ctx)
		if err != nil {
			return err
		}
		if err := seed.Save(a.cfg.SeedFile, snap); err != nil {
			return err
		}
		a.log.Info().Str("path", a.cfg.SeedFile).Msg("state saved")
	}
	if a.cfg.MetricsTextfile != "" {
		if err := a.metrics.WriteTextfile(a.cfg.MetricsTextfile); err != nil {
			a.log.Warn().Err(err).Str("path", a.cfg.MetricsTextfile).Msg("failed to write metrics")
		}
	}
	return nil
}

var (
	errInvalidConfig = errors.New("invalid configuration")
	errUsage         = errors.New("invalid arguments")
)

func exitCode(err error) int {
	var fieldErr *validation.FieldError
	switch {
	case errors.As(err, &fieldErr),
		errors.Is(err, errInvalidConfig),
		errors.Is(err, errUsage),
		errors.Is(err, seed.ErrInvalidSeed),
		errors.Is(err, money.ErrInvalidAmount),
		errors.Is(err, billing.ErrNegativeInput),
		errors.Is(err, billing.ErrInvalidStatus),
		errors.Is(err, patient.ErrInvalidServiceItem),
		errors.Is(err, identifier.ErrInvalidIdentifierFormat),
		errors.Is(err, identity.ErrUnknownSpecialization),
		errors.Is(err, identity.ErrInvalidDoctor),
		errors.Is(err, pharmacy.ErrInvalidMedicine),
		errors.Is(err, ward.ErrInvalidBed),
		errors.Is(err, pharmacy.ErrInvalidQuantity),
		errors.Is(err, assistant.ErrEmptyQuestion),
		errors.Is(err, frontdesk.ErrUnknownTopic):
		return exitInvalid
	case errors.Is(err, patient.ErrPatientNotFound),
		errors.Is(err, identity.ErrDoctorNotFound),
		errors.Is(err, ward.ErrBedNotFound),
		errors.Is(err, billing.ErrInvoiceNotFound),
		errors.Is(err, billing.ErrUnknownPatient),
		errors.Is(err, pharmacy.ErrMedicineNotFound):
		return exitNotFound
	case errors.Is(err, identifier.ErrDuplicateIdentifier),
		errors.Is(err, identifier.ErrAllocationExhausted),
		errors.Is(err, ward.ErrBedOccupied),
		errors.Is(err, ward.ErrBedVacant),
		errors.Is(err, ward.ErrDuplicateBed),
		errors.Is(err, patient.ErrDuplicatePatient),
		errors.Is(err, billing.ErrInvalidStatusTransition),
		errors.Is(err, pharmacy.ErrInsufficientStock),
		errors.Is(err, memstore.ErrVersionConflict):
		return exitConflict
	default:
		return exitInternal
	}
}
