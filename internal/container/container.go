// Package container assembles the application services from their collaborators.
// Everything is passed explicitly; there is no package-level state.
package container

import (
	"github.com/sirupsen/logrus"

	"github.com/oksasatya/go-ddd-todo/config"
	"github.com/oksasatya/go-ddd-todo/internal/application"
	repo "github.com/oksasatya/go-ddd-todo/internal/domain/repository"
	"github.com/oksasatya/go-ddd-todo/pkg/helpers"
)

// Deps are the storage and side-channel collaborators. Identities and Tasks are
// required; the rest may be nil.
type Deps struct {
	Identities repo.IdentityRepository
	Tasks      repo.TaskRepository

	Activity application.ActivityTracker
	Events   application.EventPublisher
	Index    application.TaskIndex
	Exporter application.TaskExporter
}

type Container struct {
	Config *config.Config
	Logger *logrus.Logger

	Validator *application.TokenValidator
	Accounts  *application.AccountService
	Tasks     *application.TaskService
}

// New wires the services. It fails when no signing secret is configured.
func New(cfg *config.Config, logger *logrus.Logger, deps Deps) (*Container, error) {
	jwt, err := helpers.NewJWTManager(cfg.TokenSecret)
	if err != nil {
		return nil, err
	}

	accounts := application.NewAccountService(
		deps.Identities,
		application.NewCredentialStore(cfg.BcryptCost),
		application.NewTokenIssuer(jwt),
		logger,
	)
	accounts.Activity = deps.Activity
	accounts.Events = deps.Events

	tasks := application.NewTaskService(deps.Tasks, logger)
	tasks.Index = deps.Index
	tasks.Exporter = deps.Exporter

	return &Container{
		Config:    cfg,
		Logger:    logger,
		Validator: application.NewTokenValidator(jwt, deps.Identities),
		Accounts:  accounts,
		Tasks:     tasks,
	}, nil
}
