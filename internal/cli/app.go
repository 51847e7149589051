package cli

import (
	"fmt"
	"io"
	"path/filepath"

	"github.com/pkg/errors"
	"github.com/rs/zerolog/log"

	"github.com/jrsteele09/go-aletheia/aletheia"
	"github.com/jrsteele09/go-aletheia/auth"
	"github.com/jrsteele09/go-aletheia/content"
	fakecontentrepo "github.com/jrsteele09/go-aletheia/content/repofake"
	filecontentrepo "github.com/jrsteele09/go-aletheia/content/repofile"
	"github.com/jrsteele09/go-aletheia/credentials"
	fakecredentialrepo "github.com/jrsteele09/go-aletheia/credentials/repofake"
	filecredentialrepo "github.com/jrsteele09/go-aletheia/credentials/repofile"
	"github.com/jrsteele09/go-aletheia/internal/config"
	"github.com/jrsteele09/go-aletheia/oracle"
	fakesessionrepo "github.com/jrsteele09/go-aletheia/sessions/repofakes"
)

const (
	credentialsFile = "credentials.json"
	contentFile     = "content.json"
)

// app is everything a command needs, built from configuration.
type app struct {
	config  config.Config
	auth    *auth.Service
	gate    *content.Gate
	service *aletheia.Service
}

// newApp opens the stores and wires the services. A corrupt state file is a
// startup error unless RECOVER_CORRUPT is set.
func newApp(cfg config.Config) (*app, error) {
	credentialRepo, contentRepo, err := openRepos(cfg)
	if err != nil {
		return nil, err
	}

	authService, err := auth.NewService(
		auth.Repos{Credentials: credentialRepo, Sessions: fakesessionrepo.NewFakeSessionRepo()},
		auth.WithSessionTTL(cfg.GetSessionTTL()),
		auth.WithSecretLength(cfg.GetSecretLength()),
		auth.WithHashCost(cfg.GetSecretHashCost()),
	)
	if err != nil {
		return nil, errors.Wrap(err, "[newApp] auth service")
	}

	gate := content.NewGate(contentRepo)

	service, err := aletheia.New(authService, gate, aletheia.WithOracle(oracle.NewFromConfig(cfg)))
	if err != nil {
		return nil, errors.Wrap(err, "[newApp] service")
	}

	return &app{
		config:  cfg,
		auth:    authService,
		gate:    gate,
		service: service,
	}, nil
}

func openRepos(cfg config.Config) (credentials.Repo, content.Repo, error) {
	if !cfg.GetPersist() {
		log.Warn().Msg("Persistence disabled, credentials and content live in memory only")
		return fakecredentialrepo.NewFakeCredentialRepo(), fakecontentrepo.NewFakeContentRepo(), nil
	}

	folder := cfg.GetDataFolder()
	recoverCorrupt := cfg.GetRecoverCorrupt()

	credentialRepo, err := filecredentialrepo.New(
		filepath.Join(folder, credentialsFile),
		filecredentialrepo.WithRecoverCorrupt(recoverCorrupt),
	)
	if err != nil {
		return nil, nil, errors.Wrap(err, "[openRepos] credentials")
	}

	contentRepo, err := filecontentrepo.New(
		filepath.Join(folder, contentFile),
		filecontentrepo.WithRecoverCorrupt(recoverCorrupt),
	)
	if err != nil {
		return nil, nil, errors.Wrap(err, "[openRepos] content")
	}

	log.Info().Str("folder", folder).Msg("State loaded")
	return credentialRepo, contentRepo, nil
}

// bootstrap seeds missing users and content and prints any new secrets. They
// are not recoverable later.
func (a *app) bootstrap(out io.Writer) error {
	seed, err := config.LoadSeed(a.config.GetSeedFile())
	if err != nil {
		return err
	}

	issued, err := a.service.Bootstrap(seed)
	if err != nil {
		return err
	}

	for _, c := range issued {
		fmt.Fprintf(out, "issued credential: user=%s clearance=%d secret=%s\n", c.UserID, c.Clearance, c.Secret)
	}
	return nil
}
