package models

import (
	"database/sql/driver"
	"encoding/json"
	"fmt"

	"github.com/fxamacker/cbor/v2"
	"github.com/google/uuid"
	surrealmodels "github.com/surrealdb/surrealdb.go/pkg/models"
)

// Table names shared by the GORM and SurrealDB backends.
const (
	TablePlans       = "plans"
	TableMilestones  = "milestones"
	TableSteps       = "steps"
	TableResources   = "resources"
	TableUsers       = "users"
	TableSessions    = "sessions"
	TableBookmarks   = "bookmarks"
	TableProgress    = "milestone_progresses"
	TableGenerations = "generations"
)

// recordIDTag is the CBOR tag SurrealDB uses for record identifiers.
const recordIDTag = 8

// PlanID identifies a plan.
type PlanID struct {
	uuid uuid.UUID
}

func NewPlanID() PlanID                    { return PlanID{uuid: uuid.New()} }
func NewPlanIDFromUUID(u uuid.UUID) PlanID { return PlanID{uuid: u} }

func ParsePlanID(s string) (PlanID, error) {
	u, err := parseUUID("plan", s)
	return PlanID{uuid: u}, err
}

func (id PlanID) UUID() uuid.UUID                     { return id.uuid }
func (id PlanID) String() string                      { return id.uuid.String() }
func (id PlanID) IsZero() bool                        { return id.uuid == uuid.Nil }
func (id PlanID) RecordID() surrealmodels.RecordID    { return recordID(TablePlans, id.uuid) }
func (id PlanID) MarshalJSON() ([]byte, error)        { return json.Marshal(id.uuid.String()) }
func (id *PlanID) UnmarshalJSON(data []byte) error    { return unmarshalJSONID(data, &id.uuid) }
func (id PlanID) MarshalCBOR() ([]byte, error)        { return marshalCBORID(TablePlans, id.uuid) }
func (id *PlanID) UnmarshalCBOR(data []byte) error    { return unmarshalCBORID(data, TablePlans, &id.uuid) }
func (id PlanID) Value() (driver.Value, error)        { return uuidValue(id.uuid) }
func (id *PlanID) Scan(value any) error               { return scanUUID(value, &id.uuid) }
func (PlanID) GormDataType() string                   { return "uuid" }

// MilestoneID identifies a milestone.
type MilestoneID struct {
	uuid uuid.UUID
}

func NewMilestoneID() MilestoneID                    { return MilestoneID{uuid: uuid.New()} }
func NewMilestoneIDFromUUID(u uuid.UUID) MilestoneID { return MilestoneID{uuid: u} }

func ParseMilestoneID(s string) (MilestoneID, error) {
	u, err := parseUUID("milestone", s)
	return MilestoneID{uuid: u}, err
}

func (id MilestoneID) UUID() uuid.UUID                  { return id.uuid }
func (id MilestoneID) String() string                   { return id.uuid.String() }
func (id MilestoneID) IsZero() bool                     { return id.uuid == uuid.Nil }
func (id MilestoneID) RecordID() surrealmodels.RecordID { return recordID(TableMilestones, id.uuid) }
func (id MilestoneID) MarshalJSON() ([]byte, error)     { return json.Marshal(id.uuid.String()) }
func (id *MilestoneID) UnmarshalJSON(data []byte) error { return unmarshalJSONID(data, &id.uuid) }
func (id MilestoneID) MarshalCBOR() ([]byte, error)     { return marshalCBORID(TableMilestones, id.uuid) }
func (id *MilestoneID) UnmarshalCBOR(data []byte) error {
	return unmarshalCBORID(data, TableMilestones, &id.uuid)
}
func (id MilestoneID) Value() (driver.Value, error) { return uuidValue(id.uuid) }
func (id *MilestoneID) Scan(value any) error        { return scanUUID(value, &id.uuid) }
func (MilestoneID) GormDataType() string            { return "uuid" }

// StepID identifies a step.
type StepID struct {
	uuid uuid.UUID
}

func NewStepID() StepID                    { return StepID{uuid: uuid.New()} }
func NewStepIDFromUUID(u uuid.UUID) StepID { return StepID{uuid: u} }

func ParseStepID(s string) (StepID, error) {
	u, err := parseUUID("step", s)
	return StepID{uuid: u}, err
}

func (id StepID) UUID() uuid.UUID                  { return id.uuid }
func (id StepID) String() string                   { return id.uuid.String() }
func (id StepID) IsZero() bool                     { return id.uuid == uuid.Nil }
func (id StepID) RecordID() surrealmodels.RecordID { return recordID(TableSteps, id.uuid) }
func (id StepID) MarshalJSON() ([]byte, error)     { return json.Marshal(id.uuid.String()) }
func (id *StepID) UnmarshalJSON(data []byte) error { return unmarshalJSONID(data, &id.uuid) }
func (id StepID) MarshalCBOR() ([]byte, error)     { return marshalCBORID(TableSteps, id.uuid) }
func (id *StepID) UnmarshalCBOR(data []byte) error { return unmarshalCBORID(data, TableSteps, &id.uuid) }
func (id StepID) Value() (driver.Value, error)     { return uuidValue(id.uuid) }
func (id *StepID) Scan(value any) error            { return scanUUID(value, &id.uuid) }
func (StepID) GormDataType() string                { return "uuid" }

// ResourceID identifies a learning resource attached to a step.
type ResourceID struct {
	uuid uuid.UUID
}

func NewResourceID() ResourceID                    { return ResourceID{uuid: uuid.New()} }
func NewResourceIDFromUUID(u uuid.UUID) ResourceID { return ResourceID{uuid: u} }

func ParseResourceID(s string) (ResourceID, error) {
	u, err := parseUUID("resource", s)
	return ResourceID{uuid: u}, err
}

func (id ResourceID) UUID() uuid.UUID                  { return id.uuid }
func (id ResourceID) String() string                   { return id.uuid.String() }
func (id ResourceID) IsZero() bool                     { return id.uuid == uuid.Nil }
func (id ResourceID) RecordID() surrealmodels.RecordID { return recordID(TableResources, id.uuid) }
func (id ResourceID) MarshalJSON() ([]byte, error)     { return json.Marshal(id.uuid.String()) }
func (id *ResourceID) UnmarshalJSON(data []byte) error { return unmarshalJSONID(data, &id.uuid) }
func (id ResourceID) MarshalCBOR() ([]byte, error)     { return marshalCBORID(TableResources, id.uuid) }
func (id *ResourceID) UnmarshalCBOR(data []byte) error {
	return unmarshalCBORID(data, TableResources, &id.uuid)
}
func (id ResourceID) Value() (driver.Value, error) { return uuidValue(id.uuid) }
func (id *ResourceID) Scan(value any) error        { return scanUUID(value, &id.uuid) }
func (ResourceID) GormDataType() string            { return "uuid" }

// UserID identifies an account.
type UserID struct {
	uuid uuid.UUID
}

func NewUserID() UserID                    { return UserID{uuid: uuid.New()} }
func NewUserIDFromUUID(u uuid.UUID) UserID { return UserID{uuid: u} }

func ParseUserID(s string) (UserID, error) {
	u, err := parseUUID("user", s)
	return UserID{uuid: u}, err
}

func (id UserID) UUID() uuid.UUID                  { return id.uuid }
func (id UserID) String() string                   { return id.uuid.String() }
func (id UserID) IsZero() bool                     { return id.uuid == uuid.Nil }
func (id UserID) RecordID() surrealmodels.RecordID { return recordID(TableUsers, id.uuid) }
func (id UserID) MarshalJSON() ([]byte, error)     { return json.Marshal(id.uuid.String()) }
func (id *UserID) UnmarshalJSON(data []byte) error { return unmarshalJSONID(data, &id.uuid) }
func (id UserID) MarshalCBOR() ([]byte, error)     { return marshalCBORID(TableUsers, id.uuid) }
func (id *UserID) UnmarshalCBOR(data []byte) error { return unmarshalCBORID(data, TableUsers, &id.uuid) }
func (id UserID) Value() (driver.Value, error)     { return uuidValue(id.uuid) }
func (id *UserID) Scan(value any) error            { return scanUUID(value, &id.uuid) }
func (UserID) GormDataType() string                { return "uuid" }

// BookmarkID identifies a bookmark row.
type BookmarkID struct {
	uuid uuid.UUID
}

func NewBookmarkID() BookmarkID { return BookmarkID{uuid: uuid.New()} }

func (id BookmarkID) String() string                   { return id.uuid.String() }
func (id BookmarkID) IsZero() bool                     { return id.uuid == uuid.Nil }
func (id BookmarkID) RecordID() surrealmodels.RecordID { return recordID(TableBookmarks, id.uuid) }
func (id BookmarkID) MarshalJSON() ([]byte, error)     { return json.Marshal(id.uuid.String()) }
func (id *BookmarkID) UnmarshalJSON(data []byte) error { return unmarshalJSONID(data, &id.uuid) }
func (id BookmarkID) MarshalCBOR() ([]byte, error)     { return marshalCBORID(TableBookmarks, id.uuid) }
func (id *BookmarkID) UnmarshalCBOR(data []byte) error {
	return unmarshalCBORID(data, TableBookmarks, &id.uuid)
}
func (id BookmarkID) Value() (driver.Value, error) { return uuidValue(id.uuid) }
func (id *BookmarkID) Scan(value any) error        { return scanUUID(value, &id.uuid) }
func (BookmarkID) GormDataType() string            { return "uuid" }

// ProgressID identifies a milestone completion record.
type ProgressID struct {
	uuid uuid.UUID
}

func NewProgressID() ProgressID { return ProgressID{uuid: uuid.New()} }

func (id ProgressID) String() string                   { return id.uuid.String() }
func (id ProgressID) IsZero() bool                     { return id.uuid == uuid.Nil }
func (id ProgressID) RecordID() surrealmodels.RecordID { return recordID(TableProgress, id.uuid) }
func (id ProgressID) MarshalJSON() ([]byte, error)     { return json.Marshal(id.uuid.String()) }
func (id *ProgressID) UnmarshalJSON(data []byte) error { return unmarshalJSONID(data, &id.uuid) }
func (id ProgressID) MarshalCBOR() ([]byte, error)     { return marshalCBORID(TableProgress, id.uuid) }
func (id *ProgressID) UnmarshalCBOR(data []byte) error {
	return unmarshalCBORID(data, TableProgress, &id.uuid)
}
func (id ProgressID) Value() (driver.Value, error) { return uuidValue(id.uuid) }
func (id *ProgressID) Scan(value any) error        { return scanUUID(value, &id.uuid) }
func (ProgressID) GormDataType() string            { return "uuid" }

// GenerationID identifies a roadmap generation audit record.
type GenerationID struct {
	uuid uuid.UUID
}

func NewGenerationID() GenerationID { return GenerationID{uuid: uuid.New()} }

func (id GenerationID) String() string                   { return id.uuid.String() }
func (id GenerationID) IsZero() bool                     { return id.uuid == uuid.Nil }
func (id GenerationID) RecordID() surrealmodels.RecordID { return recordID(TableGenerations, id.uuid) }
func (id GenerationID) MarshalJSON() ([]byte, error)     { return json.Marshal(id.uuid.String()) }
func (id *GenerationID) UnmarshalJSON(data []byte) error { return unmarshalJSONID(data, &id.uuid) }
func (id GenerationID) MarshalCBOR() ([]byte, error)     { return marshalCBORID(TableGenerations, id.uuid) }
func (id *GenerationID) UnmarshalCBOR(data []byte) error {
	return unmarshalCBORID(data, TableGenerations, &id.uuid)
}
func (id GenerationID) Value() (driver.Value, error) { return uuidValue(id.uuid) }
func (id *GenerationID) Scan(value any) error        { return scanUUID(value, &id.uuid) }
func (GenerationID) GormDataType() string            { return "uuid" }

func parseUUID(kind, s string) (uuid.UUID, error) {
	id, err := uuid.Parse(s)
	if err != nil {
		return uuid.Nil, fmt.Errorf("invalid %s ID: %w", kind, err)
	}
	return id, nil
}

func recordID(table string, id uuid.UUID) surrealmodels.RecordID {
	return surrealmodels.RecordID{Table: table, ID: id.String()}
}

func uuidValue(id uuid.UUID) (driver.Value, error) {
	if id == uuid.Nil {
		return nil, nil
	}
	return id.String(), nil
}

func unmarshalJSONID(data []byte, target *uuid.UUID) error {
	var s string
	if err := json.Unmarshal(data, &s); err != nil {
		return err
	}
	if s == "" {
		*target = uuid.Nil
		return nil
	}
	id, err := uuid.Parse(s)
	if err != nil {
		return err
	}
	*target = id
	return nil
}

func scanUUID(value any, target *uuid.UUID) error {
	if value == nil {
		*target = uuid.Nil
		return nil
	}

	switch v := value.(type) {
	case string:
		id, err := uuid.Parse(v)
		if err != nil {
			return err
		}
		*target = id
	case []byte:
		id, err := uuid.ParseBytes(v)
		if err != nil {
			return err
		}
		*target = id
	default:
		return fmt.Errorf("cannot scan type %T into UUID", value)
	}
	return nil
}

func marshalCBORID(table string, id uuid.UUID) ([]byte, error) {
	return cbor.Marshal(cbor.Tag{
		Number:  recordIDTag,
		Content: []any{table, id.String()},
	})
}

// unmarshalCBORID decodes a SurrealDB record id, encoded as tag 8 wrapping
// [table, id], into target.
func unmarshalCBORID(data []byte, expectedTable string, target *uuid.UUID) error {
	if len(data) == 0 {
		return fmt.Errorf("empty CBOR data")
	}
	if majorType := data[0] >> 5; majorType != 6 {
		return fmt.Errorf("expected CBOR tag for record id, got major type %d", majorType)
	}

	var tag cbor.Tag
	if err := cbor.Unmarshal(data, &tag); err != nil {
		return fmt.Errorf("failed to unmarshal CBOR tag: %w", err)
	}
	if tag.Number != recordIDTag {
		return fmt.Errorf("expected record id tag (%d), got %d", recordIDTag, tag.Number)
	}

	arr, ok := tag.Content.([]any)
	if !ok || len(arr) != 2 {
		return fmt.Errorf("invalid record id: expected [table, id] array")
	}
	table, ok := arr[0].(string)
	if !ok {
		return fmt.Errorf("invalid record id: table name must be string")
	}
	if table != expectedTable {
		return fmt.Errorf("expected table %s, got %s", expectedTable, table)
	}
	idStr, ok := arr[1].(string)
	if !ok {
		return fmt.Errorf("invalid record id: id must be string")
	}

	id, err := uuid.Parse(idStr)
	if err != nil {
		return fmt.Errorf("invalid UUID in record id: %w", err)
	}
	*target = id
	return nil
}
