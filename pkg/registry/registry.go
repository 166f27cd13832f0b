// pkg/registry/registry.go
package registry

import (
	"encoding/json"
	"fmt"
	"os"
	"regexp"
	"time"

	"github.com/xeipuuv/gojsonschema"
)

const (
	TaskBuildUserSignals = "build-user-signals"
	TaskRankVouchers     = "rank-vouchers"
	TaskFindNearbyDeals  = "find-nearby-deals"
	TaskSendDealAlert    = "send-deal-alert"
)

var taskTypePattern = regexp.MustCompile(`^[a-z]+(-[a-z]+)+$`)

// Builtin returns the activities implemented by this repository.
func Builtin() *ActivityRegistry {
	return &ActivityRegistry{
		Version:     "1.0.0",
		LastUpdated: "2024-07-01",
		Activities: []Activity{
			{
				ID:                   "personalization.signals.build",
				DisplayName:          "Build User Signals",
				Description:          "Aggregate profile, questionnaire, purchase history and enrichment into ranking signals",
				Category:             "personalization",
				Version:              "1.0.0",
				TaskType:             TaskBuildUserSignals,
				ImplementationStatus: "implemented",
				InputSchema: object([]string{"userId"}, schema{
					"userId":        schema{"type": "string", "minLength": 1},
					"questionnaire": questionnaireSchema,
				}),
				OutputSchema: object([]string{"signals"}, schema{"signals": typed("object")}),
				ErrorCodes:   []string{"INVALID_INPUT", "USER_PROFILE_LOAD_FAILED", "PURCHASE_HISTORY_LOAD_FAILED"},
				Timeout:      "10s",
				Retries:      3,
				Workflows:    []string{"wallet-onboarding", "daily-recommendations"},
				Tags:         []string{"personalization", "signals"},
			},
			{
				ID:                   "personalization.vouchers.rank",
				DisplayName:          "Rank Vouchers",
				Description:          "Score the voucher catalog against user signals and return the top recommendations",
				Category:             "personalization",
				Version:              "1.0.0",
				TaskType:             TaskRankVouchers,
				ImplementationStatus: "implemented",
				InputSchema: object(nil, schema{
					"userId":        typed("string"),
					"questionnaire": questionnaireSchema,
					"catalog":       arrayOf(catalogItemSchema),
					"maxResults":    schema{"type": "integer", "minimum": 1, "maximum": 100},
					"weights":       schema{"type": "object", "additionalProperties": typed("number")},
				}),
				OutputSchema: object([]string{"recommendations"}, schema{
					"requestId":       typed("string"),
					"recommendations": typed("array"),
					"eligibleCount":   typed("integer"),
				}),
				ErrorCodes: []string{"INVALID_INPUT", "INVALID_WEIGHTS", "CATALOG_LOAD_FAILED", "INDEX_NOT_FOUND", "USER_PROFILE_LOAD_FAILED", "PURCHASE_HISTORY_LOAD_FAILED"},
				Timeout:    "15s",
				Retries:    3,
				Workflows:  []string{"daily-recommendations", "wallet-home"},
				Tags:       []string{"personalization", "ranking"},
			},
			{
				ID:                   "personalization.deals.nearby",
				DisplayName:          "Find Nearby Deals",
				Description:          "Match eligible vouchers to the nearest merchant branch and sort by distance",
				Category:             "personalization",
				Version:              "1.0.0",
				TaskType:             TaskFindNearbyDeals,
				ImplementationStatus: "implemented",
				InputSchema: object(nil, schema{
					"latitude":    numberIn(-90, 90),
					"longitude":   numberIn(-180, 180),
					"maxResults":  schema{"type": "integer", "minimum": 1, "maximum": 100},
					"openNowOnly": typed("boolean"),
					"radiusKm":    schema{"type": "number", "minimum": 0},
					"catalog":     arrayOf(catalogItemSchema),
				}),
				OutputSchema: object([]string{"deals"}, schema{"deals": typed("array")}),
				ErrorCodes:   []string{"INVALID_INPUT", "LOCATION_REQUIRED", "CATALOG_LOAD_FAILED", "INDEX_NOT_FOUND", "BRANCH_DIRECTORY_LOAD_FAILED"},
				Timeout:      "10s",
				Retries:      3,
				Workflows:    []string{"wallet-map"},
				Tags:         []string{"personalization", "proximity"},
			},
			{
				ID:                   "personalization.alerts.send",
				DisplayName:          "Send Deal Alert",
				Description:          "Notify a user about deals by SMS or email, honoring their notification frequency",
				Category:             "communication",
				Version:              "1.0.0",
				TaskType:             TaskSendDealAlert,
				ImplementationStatus: "implemented",
				InputSchema: object([]string{"userId", "deals"}, schema{
					"userId": schema{"type": "string", "minLength": 1},
					"deals": schema{
						"type":     "array",
						"minItems": 1,
						"items": object([]string{"title"}, schema{
							"title":        schema{"type": "string", "minLength": 1},
							"merchantName": typed("string"),
							"distance":     typed("string"),
						}),
					},
				}),
				OutputSchema: object([]string{"sent"}, schema{
					"sent":          typed("boolean"),
					"channel":       typed("string"),
					"skippedReason": typed("string"),
				}),
				ErrorCodes: []string{"INVALID_INPUT", "USER_PROFILE_LOAD_FAILED", "ALERT_SEND_FAILED"},
				Timeout:    "10s",
				Retries:    3,
				Workflows:  []string{"nearby-deal-alerts"},
				Tags:       []string{"personalization", "notification"},
			},
		},
	}
}

func LoadRegistry(path string) (*ActivityRegistry, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	var reg ActivityRegistry
	if err := json.Unmarshal(data, &reg); err != nil {
		return nil, fmt.Errorf("parse registry %s: %w", path, err)
	}
	return &reg, nil
}

// SaveRegistry writes reg as indented JSON and stamps LastUpdated.
func SaveRegistry(path string, reg *ActivityRegistry) error {
	reg.LastUpdated = time.Now().UTC().Format("2006-01-02")
	data, err := json.MarshalIndent(reg, "", "  ")
	if err != nil {
		return err
	}
	return os.WriteFile(path, append(data, '\n'), 0o644)
}

// Find returns the activity registered for taskType.
func (r *ActivityRegistry) Find(taskType string) (*Activity, bool) {
	for i := range r.Activities {
		if r.Activities[i].TaskType == taskType {
			return &r.Activities[i], true
		}
	}
	return nil, false
}

// InputSchema returns the builtin input schema for taskType, or nil.
func InputSchema(taskType string) map[string]interface{} {
	if a, ok := Builtin().Find(taskType); ok {
		return a.InputSchema
	}
	return nil
}

// Validate checks task type naming, uniqueness and that every schema compiles.
func (r *ActivityRegistry) Validate() []error {
	var errs []error
	seen := make(map[string]bool)
	for _, a := range r.Activities {
		if !taskTypePattern.MatchString(a.TaskType) {
			errs = append(errs, fmt.Errorf("%s: task type %q must be lower-case kebab-case", a.ID, a.TaskType))
		}
		if seen[a.TaskType] {
			errs = append(errs, fmt.Errorf("%s: duplicate task type %q", a.ID, a.TaskType))
		}
		seen[a.TaskType] = true

		for name, s := range map[string]map[string]interface{}{"input": a.InputSchema, "output": a.OutputSchema} {
			if s == nil {
				continue
			}
			if _, err := gojsonschema.NewSchema(gojsonschema.NewGoLoader(s)); err != nil {
				errs = append(errs, fmt.Errorf("%s: %s schema: %w", a.ID, name, err))
			}
		}
	}
	return errs
}
