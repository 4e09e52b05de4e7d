package entity

import (
	"opscal/core/entity"

	"github.com/google/uuid"
	"github.com/lib/pq"
)

type DeploymentType string

const (
	DeploymentSingle        DeploymentType = "single"
	DeploymentCollaborative DeploymentType = "collaborative"
	DeploymentEcosystem     DeploymentType = "ecosystem"
)

func (d DeploymentType) Valid() bool {
	switch d {
	case DeploymentSingle, DeploymentCollaborative, DeploymentEcosystem:
		return true
	}
	return false
}

type BillingModel string

const (
	BillingHourly  BillingModel = "hourly"
	BillingProject BillingModel = "project"
	BillingProduct BillingModel = "product"
)

func (b BillingModel) Valid() bool {
	switch b {
	case BillingHourly, BillingProject, BillingProduct:
		return true
	}
	return false
}

// BusinessConfiguration describes the kind of business a deployment serves,
// including the vocabulary its users expect in place of the generic
// client/location/project/material terms.
type BusinessConfiguration struct {
	entity.BaseEntity
	Name            string         `db:"name" json:"name"`
	Slug            string         `db:"slug" json:"slug"`
	Description     string         `db:"description" json:"description"`
	IndustryDetails string         `db:"industry_details" json:"industry_details"`
	DeploymentType  DeploymentType `db:"deployment_type" json:"deployment_type"`
	BillingModel    BillingModel   `db:"billing_model" json:"billing_model"`

	EnablesSharedInventory bool `db:"enables_shared_inventory" json:"enables_shared_inventory"`
	EnablesSharedWorkforce bool `db:"enables_shared_workforce" json:"enables_shared_workforce"`
	EnablesSharedClients   bool `db:"enables_shared_clients" json:"enables_shared_clients"`
	EnablesCrossSelling    bool `db:"enables_cross_selling" json:"enables_cross_selling"`

	ClientTerm           string         `db:"client_term" json:"client_term"`
	ClientTermSingular   string         `db:"client_term_singular" json:"client_term_singular"`
	ClientSynonyms       pq.StringArray `db:"client_synonyms" json:"client_synonyms"`
	LocationTerm         string         `db:"location_term" json:"location_term"`
	LocationTermSingular string         `db:"location_term_singular" json:"location_term_singular"`
	ProjectTerm          string         `db:"project_term" json:"project_term"`
	ProjectTermSingular  string         `db:"project_term_singular" json:"project_term_singular"`
	MaterialTerm         string         `db:"material_term" json:"material_term"`
	MaterialTermSingular string         `db:"material_term_singular" json:"material_term_singular"`

	// MaterialTypeNicknames maps material type slugs to display names.
	MaterialTypeNicknames entity.JSONMap `db:"material_type_nicknames" json:"material_type_nicknames"`

	WorkflowRequirements entity.JSONMap `db:"workflow_requirements" json:"workflow_requirements"`
}

func (BusinessConfiguration) TableName() string {
	return "business_configurations"
}

// TerminologyAlias renames a single model field for one business
// configuration, keyed by the app_label.model.field triple.
type TerminologyAlias struct {
	entity.BaseEntity
	BusinessConfigID uuid.UUID `db:"business_config_id" json:"business_config_id"`
	AppLabel         string    `db:"app_label" json:"app_label"`
	Model            string    `db:"model" json:"model"`
	Field            string    `db:"field" json:"field"`
	Alias            string    `db:"alias" json:"alias"`
}

func (TerminologyAlias) TableName() string {
	return "terminology_aliases"
}

// Key is the lookup key aliases are served under.
func (a *TerminologyAlias) Key() string {
	return a.AppLabel + "." + a.Model + "." + a.Field
}
