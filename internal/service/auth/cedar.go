package auth

import (
	"context"
	_ "embed"
	"encoding/json"
	"fmt"
	"log/slog"
	"strconv"

	"github.com/cedar-policy/cedar-go"
	"wizard/internal/domain"
	"wizard/internal/domain/models"
	"wizard/internal/domain/repositories"
	"wizard/internal/domain/services"
)

//go:embed policies/policy.cedar
var policyContent string

// Cedar entity types for the authorization model
const (
	entityTypeUser    = "Wizard::User"
	entityTypeProject = "Wizard::Project"
	entityTypePage    = "Wizard::Page"
	entityTypeAction  = "Wizard::Action"
)

// Page actions evaluated against the policy set
const (
	ActionPageAdd  = "page-add"
	ActionPageEdit = "page-edit"
)

// CedarAuthorizer implements the PageAuthorizer interface by evaluating an
// embedded Cedar policy set against the page's owning project.
type CedarAuthorizer struct {
	policySet   *cedar.PolicySet
	projectRepo repositories.ProjectRepository
	logger      *slog.Logger
}

// NewCedarAuthorizer creates a new Cedar-backed page authorizer
func NewCedarAuthorizer(projectRepo repositories.ProjectRepository, logger *slog.Logger) (services.PageAuthorizer, error) {
	policySet, err := cedar.NewPolicySetFromBytes("policy.cedar", []byte(policyContent))
	if err != nil {
		return nil, fmt.Errorf("parse policies: %w", err)
	}

	return &CedarAuthorizer{
		policySet:   policySet,
		projectRepo: projectRepo,
		logger:      logger,
	}, nil
}

// CanAddPage checks the "page-add" capability on a project
func (a *CedarAuthorizer) CanAddPage(ctx context.Context, userID string, project *models.Project) error {
	allowed, err := a.decide(userID, ActionPageAdd, entityTypeProject, strconv.FormatInt(project.ID, 10), project.UserID)
	if err != nil {
		return err
	}
	if !allowed {
		return &domain.ForbiddenError{Message: fmt.Sprintf("user %s may not add pages to project %d", userID, project.ID)}
	}
	return nil
}

// CanEditPage checks the "page-edit" capability on a page.
// The owner attribute comes from the page's project.
func (a *CedarAuthorizer) CanEditPage(ctx context.Context, userID string, page *models.Document) error {
	project, err := a.projectRepo.GetByID(ctx, page.ProjectID)
	if err != nil {
		return fmt.Errorf("get project for auth: %w", err)
	}

	allowed, err := a.decide(userID, ActionPageEdit, entityTypePage, strconv.FormatInt(page.ID, 10), project.UserID)
	if err != nil {
		return err
	}
	if !allowed {
		return &domain.ForbiddenError{Message: fmt.Sprintf("user %s may not edit page %d", userID, page.ID)}
	}
	return nil
}

// decide evaluates one authorization request against the policy set
func (a *CedarAuthorizer) decide(userID, action, resourceType, resourceID, resourceOwnerID string) (bool, error) {
	principal := cedar.NewEntityUID(cedar.EntityType(entityTypeUser), cedar.String(userID))
	actionUID := cedar.NewEntityUID(cedar.EntityType(entityTypeAction), cedar.String(action))
	resource := cedar.NewEntityUID(cedar.EntityType(resourceType), cedar.String(resourceID))

	// Build entities as JSON: the principal, and the resource carrying its
	// owner as an entity reference
	entitiesJSON := []map[string]interface{}{
		{
			"uid": map[string]string{
				"type": entityTypeUser,
				"id":   userID,
			},
			"attrs":   map[string]interface{}{},
			"parents": []interface{}{},
		},
		{
			"uid": map[string]string{
				"type": resourceType,
				"id":   resourceID,
			},
			"attrs": map[string]interface{}{
				"owner": map[string]interface{}{
					"__entity": map[string]string{
						"type": entityTypeUser,
						"id":   resourceOwnerID,
					},
				},
			},
			"parents": []interface{}{},
		},
	}

	entitiesBytes, err := json.Marshal(entitiesJSON)
	if err != nil {
		return false, fmt.Errorf("marshal entities: %w", err)
	}

	var entities cedar.EntityMap
	if err := json.Unmarshal(entitiesBytes, &entities); err != nil {
		return false, fmt.Errorf("unmarshal entities: %w", err)
	}

	req := cedar.Request{
		Principal: principal,
		Action:    actionUID,
		Resource:  resource,
	}

	decision, _ := a.policySet.IsAuthorized(entities, req)

	a.logger.Debug("authorization decided",
		"user_id", userID,
		"action", action,
		"resource", resourceType+"::"+resourceID,
		"allowed", decision == cedar.Allow,
	)

	return decision == cedar.Allow, nil
}
