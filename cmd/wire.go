package cmd

import (
	"errors"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"time"

	anthropicsdk "github.com/anthropics/anthropic-sdk-go"
	"github.com/spf13/viper"

	"advisormesh"
	"advisormesh/core"
	"advisormesh/model"
	"advisormesh/model/anthropic"
	"advisormesh/model/openai"
	"advisormesh/observability"
	"advisormesh/retrieval"
	"advisormesh/tool"
)

type rootFlags struct {
	provider   string
	configPath string
}

type app struct {
	advisor *advisormesh.Advisor
	metrics *observability.Metrics
	emitter *observability.JSONLEmitter
	logger  observability.Logger
}

// Close flushes the trace emitter, if one was configured.
func (a *app) Close() {
	if a.emitter != nil {
		a.emitter.Close()
	}
}

func wireApp(flags *rootFlags) (*app, error) {
	cfg := viper.New()
	cfg.SetConfigName("config")
	cfg.SetConfigType("yaml")
	if flags.configPath != "" {
		cfg.SetConfigFile(flags.configPath)
	} else {
		if homeDir, err := os.UserHomeDir(); err == nil {
			cfg.AddConfigPath(filepath.Join(homeDir, ".advisormesh"))
		}
		cfg.AddConfigPath(".")
	}
	cfg.SetEnvPrefix("ADVISOR")
	cfg.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	cfg.AutomaticEnv()

	cfg.SetDefault("provider", "mock")
	cfg.SetDefault("model", "")
	cfg.SetDefault("routing.threshold", 0.5)
	cfg.SetDefault("agent.timeout", "30s")
	cfg.SetDefault("log.level", "warn")
	cfg.SetDefault("trace.path", "")
	cfg.SetDefault("corpus.path", "")

	if err := cfg.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if !errors.As(err, &notFound) {
			return nil, fmt.Errorf("read config: %w", err)
		}
	}
	if flags.provider != "" {
		cfg.Set("provider", flags.provider)
	}

	logger := observability.NewJSONLogger(parseLogLevel(cfg.GetString("log.level")))
	metrics := observability.NewMetrics()

	m, err := buildModel(cfg)
	if err != nil {
		return nil, err
	}

	agentTimeout, err := time.ParseDuration(cfg.GetString("agent.timeout"))
	if err != nil {
		return nil, fmt.Errorf("parse agent.timeout: %w", err)
	}

	var emitter *observability.JSONLEmitter
	var traceSink core.TraceEmitter = core.NopEmitter{}
	if path := cfg.GetString("trace.path"); path != "" {
		f, err := os.OpenFile(path, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0o600)
		if err != nil {
			return nil, fmt.Errorf("open trace file: %w", err)
		}
		emitter = observability.NewJSONLEmitter(f)
		traceSink = emitter
	}

	index, catalog, directory := seedDemoCorpus()
	if path := cfg.GetString("corpus.path"); path != "" {
		f, err := os.Open(path)
		if err != nil {
			return nil, fmt.Errorf("open corpus: %w", err)
		}
		docs, err := retrieval.LoadCorpus(f, filepath.Base(path))
		f.Close()
		if err != nil {
			return nil, err
		}
		index.Add(docs...)
	}

	advisor := advisormesh.New(m, index, func(o *advisormesh.Options) {
		o.RoutingThreshold = cfg.GetFloat64("routing.threshold")
		o.AgentTimeout = agentTimeout
		o.Catalog = catalog
		o.Directory = directory
		o.Logger = logger
		o.Metrics = metrics
		o.Emitter = traceSink
	})

	return &app{advisor: advisor, metrics: metrics, emitter: emitter, logger: logger}, nil
}

func buildModel(cfg *viper.Viper) (model.Model, error) {
	provider := strings.ToLower(cfg.GetString("provider"))
	name := cfg.GetString("model")

	switch provider {
	case "openai":
		return openai.NewModel(func(o *openai.Options) {
			if name != "" {
				o.Model = name
			}
		}), nil
	case "anthropic":
		return anthropic.NewModel(func(o *anthropic.Options) {
			if name != "" {
				o.Model = anthropicsdk.Model(name)
			}
		}), nil
	case "mock", "":
		return demoMockModel(), nil
	default:
		return nil, fmt.Errorf("unknown provider %q (want openai, anthropic or mock)", provider)
	}
}

func parseLogLevel(s string) slog.Level {
	switch strings.ToLower(s) {
	case "debug":
		return slog.LevelDebug
	case "info":
		return slog.LevelInfo
	case "error":
		return slog.LevelError
	default:
		return slog.LevelWarn
	}
}

// seedDemoCorpus builds the bundled retrieval index and structured lookup
// data. Deployments serving a real institution replace this with their own
// catalog loader.
func seedDemoCorpus() (*retrieval.InMemoryIndex, core.CourseCatalog, core.ProgramDirectory) {
	index := retrieval.NewInMemoryIndex(
		retrieval.Document{Text: "The Welding certificate is a four-quarter program covering MIG, TIG and stick welding, blueprint reading and metal fabrication.", Source: "catalog/welding"},
		retrieval.Document{Text: "The Nursing associate degree prepares students for the NCLEX-RN exam. Prerequisites include anatomy, physiology and a minimum 2.5 GPA.", Source: "catalog/nursing"},
		retrieval.Document{Text: "Applications are accepted year-round. Submit transcripts and complete the placement test at least two weeks before the quarter starts.", Source: "admissions/applying"},
		retrieval.Document{Text: "New student enrollment requires an application, official transcripts, and attendance at an orientation session.", Source: "admissions/enrollment"},
		retrieval.Document{Text: "Complete the FAFSA to be considered for grants, work-study and federal loans. The school code is 003758.", Source: "financial/fafsa"},
		retrieval.Document{Text: "Tuition is charged per credit. Certificate programs average 15 credits per quarter; payment plans are available through the cashier's office.", Source: "financial/tuition"},
		retrieval.Document{Text: "Scholarships for trades programs open every spring. Welding and machining students are eligible for the industry partner awards.", Source: "financial/scholarships"},
	)

	catalog := tool.NewInMemoryCatalog(
		core.CourseRecord{Code: "WELD 101", Name: "Welding Fundamentals", Credits: "5", Description: "Safety, oxy-fuel cutting and basic arc welding."},
		core.CourseRecord{Code: "WELD 201", Name: "Advanced TIG Welding", Credits: "5", Description: "Precision TIG work on stainless and aluminum."},
		core.CourseRecord{Code: "NURS 101", Name: "Nursing Foundations", Credits: "5", Description: "Core nursing concepts and patient care basics."},
		core.CourseRecord{Code: "MATH 107", Name: "Applied Technical Math", Credits: "5", Description: "Shop math for trades programs."},
	)

	directory := tool.NewInMemoryDirectory(
		core.ProgramRecord{Name: "Welding", Field: "welding", Award: "Certificate", Description: "Four-quarter fabrication and welding program."},
		core.ProgramRecord{Name: "Nursing", Field: "nursing", Award: "Associate Degree", Description: "Two-year RN preparation program."},
		core.ProgramRecord{Name: "Carpentry", Field: "construction", Award: "Certificate", Description: "Residential framing and finish carpentry."},
		core.ProgramRecord{Name: "Automotive Technology", Field: "automotive", Award: "Associate Degree", Description: "Engine, drivetrain and diagnostics training."},
	)

	return index, catalog, directory
}

// demoMockModel answers offline demo sessions with canned classifications and
// generic answers, so the CLI works without API credentials.
func demoMockModel() model.Model {
	m := model.NewMockModel("demo", "mock")
	m.AddResponse("routing classifier", "program: 0.8\nadmissions: 0.2\nfinancial: 0.1")
	m.AddResponse("Student question", "Here is what I found in the catalog. See the listed sources for details; for anything beyond them, contact the advising office.")
	return m
}
