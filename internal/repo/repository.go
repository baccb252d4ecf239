package repo

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"reflect"
	"sort"
	"strings"
	"sync"
	"time"

	"gorm.io/gorm"
	"gorm.io/gorm/schema"

	"github.com/Varun984/Sparkathon-by-Walmart/pkg/db/models"
	pkgerrors "github.com/Varun984/Sparkathon-by-Walmart/pkg/errors"
)

// CRUD is the capability every record collection shares.
type CRUD[T any] interface {
	Create(ctx context.Context, record *T) error
	GetAll(ctx context.Context) ([]T, error)
	GetByID(ctx context.Context, id int64) (*T, error)
	UpdateByID(ctx context.Context, id int64, patch Patch) ([]T, error)
	DeleteByID(ctx context.Context, id int64) ([]T, error)
}

// Patch maps column names to already typed values.
type Patch map[string]any

// Condition is a raw predicate appended to a Query.
type Condition struct {
	Expr string
	Args []any
}

// Query narrows Find. Where keys are column names compared for equality.
type Query struct {
	Where      map[string]any
	Conditions []Condition
	Order      string
	Limit      int
}

type validatable interface {
	IsValid() bool
}

var schemaCache sync.Map

// Repository implements generic persistence for one model type.
type Repository[T any] struct {
	Base
	schema  *schema.Schema
	byJSON  map[string]*schema.Field
	pk      *schema.Field
	updated *schema.Field
	times   []*schema.Field
}

// New parses the model schema for T and binds it to db.
func New[T any](db *gorm.DB) (*Repository[T], error) {
	parsed, err := schema.Parse(new(T), &schemaCache, db.NamingStrategy)
	if err != nil {
		return nil, fmt.Errorf("parsing schema for %T: %w", *new(T), err)
	}

	r := &Repository[T]{
		Base:   NewBase(db),
		schema: parsed,
		byJSON: make(map[string]*schema.Field, len(parsed.Fields)),
	}
	for _, field := range parsed.Fields {
		if field.DBName == "" {
			continue
		}
		r.byJSON[jsonName(field)] = field
		if field.AutoUpdateTime > 0 && r.updated == nil {
			r.updated = field
		}
		if field.FieldType == timeType || field.FieldType == timePtrType {
			r.times = append(r.times, field)
		}
	}
	if len(parsed.PrimaryFields) == 1 {
		r.pk = parsed.PrimaryFields[0]
	}
	return r, nil
}

// WithTx returns a copy bound to tx.
func (r *Repository[T]) WithTx(tx *gorm.DB) *Repository[T] {
	if tx == nil {
		return r
	}
	clone := *r
	clone.Base = r.Base.WithTx(tx)
	return &clone
}

// Table returns the table name of T.
func (r *Repository[T]) Table() string {
	return r.schema.Table
}

// PrimaryKey returns the single identifier column, or "" for composite keys.
func (r *Repository[T]) PrimaryKey() string {
	if r.pk == nil {
		return ""
	}
	return r.pk.DBName
}

// Column resolves a JSON attribute name to its column.
func (r *Repository[T]) Column(attr string) (string, bool) {
	field, ok := r.byJSON[attr]
	if !ok {
		return "", false
	}
	return field.DBName, true
}

func (r *Repository[T]) now() time.Time {
	return r.Base.Now()
}

// Create applies defaults, validates and inserts record. Database failures
// are returned unclassified.
func (r *Repository[T]) Create(ctx context.Context, record *T) error {
	if record == nil {
		return pkgerrors.New(pkgerrors.CodeValidation, "record required")
	}
	if defaulter, ok := any(record).(models.Defaulter); ok {
		defaulter.ApplyDefaults(r.now())
	}
	if err := models.Validate(record); err != nil {
		return pkgerrors.Wrap(pkgerrors.CodeValidation, err, err.Error())
	}
	r.toUTC(ctx, record)
	return r.DB(ctx).Create(record).Error
}

// CreateMany validates every record and inserts them in one statement.
func (r *Repository[T]) CreateMany(ctx context.Context, records []T) error {
	if len(records) == 0 {
		return pkgerrors.New(pkgerrors.CodeValidation, "at least one record required")
	}
	now := r.now()
	for i := range records {
		if defaulter, ok := any(&records[i]).(models.Defaulter); ok {
			defaulter.ApplyDefaults(now)
		}
		if err := models.Validate(&records[i]); err != nil {
			return pkgerrors.Wrap(pkgerrors.CodeValidation, err, fmt.Sprintf("record %d: %s", i, err.Error()))
		}
		r.toUTC(ctx, &records[i])
	}
	return r.DB(ctx).Create(&records).Error
}

func (r *Repository[T]) GetAll(ctx context.Context) ([]T, error) {
	return r.Find(ctx, Query{})
}

// GetByID returns nil without error when no row matches.
func (r *Repository[T]) GetByID(ctx context.Context, id int64) (*T, error) {
	if r.pk == nil {
		return nil, fmt.Errorf("%s has no single identifier", r.schema.Table)
	}
	rows, err := r.Find(ctx, Query{Where: map[string]any{r.pk.DBName: id}, Limit: 1})
	if err != nil || len(rows) == 0 {
		return nil, err
	}
	return &rows[0], nil
}

// FindBy filters on column equality. Enum columns reject values outside their set.
func (r *Repository[T]) FindBy(ctx context.Context, column string, value any) ([]T, error) {
	if field, ok := r.schema.FieldsByDBName[column]; ok {
		if err := checkEnumValue(field, value); err != nil {
			return nil, err
		}
	}
	return r.Find(ctx, Query{Where: map[string]any{column: value}})
}

func (r *Repository[T]) Find(ctx context.Context, q Query) ([]T, error) {
	tx := r.DB(ctx).Model(new(T))
	if len(q.Where) > 0 {
		tx = tx.Where(q.Where)
	}
	for _, cond := range q.Conditions {
		tx = tx.Where(cond.Expr, cond.Args...)
	}
	switch {
	case q.Order != "":
		tx = tx.Order(q.Order)
	case r.pk != nil:
		tx = tx.Order(r.pk.DBName)
	}
	if q.Limit > 0 {
		tx = tx.Limit(q.Limit)
	}

	out := make([]T, 0)
	if err := tx.Find(&out).Error; err != nil {
		return nil, err
	}
	return out, nil
}

func (r *Repository[T]) Count(ctx context.Context, where map[string]any) (int64, error) {
	tx := r.DB(ctx).Model(new(T))
	if len(where) > 0 {
		tx = tx.Where(where)
	}
	var count int64
	if err := tx.Count(&count).Error; err != nil {
		return 0, err
	}
	return count, nil
}

// UpdateByID merges patch into the identified row and returns the updated
// rows. An unknown id yields an empty slice.
func (r *Repository[T]) UpdateByID(ctx context.Context, id int64, patch Patch) ([]T, error) {
	if r.pk == nil {
		return nil, fmt.Errorf("%s has no single identifier", r.schema.Table)
	}
	return r.UpdateWhere(ctx, map[string]any{r.pk.DBName: id}, patch)
}

// UpdateWhere merges patch into every row matching where and refreshes the
// update timestamp.
func (r *Repository[T]) UpdateWhere(ctx context.Context, where map[string]any, patch Patch) ([]T, error) {
	if len(where) == 0 {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "update requires a condition")
	}

	out := make([]T, 0)
	err := r.DB(ctx).Transaction(func(tx *gorm.DB) error {
		var matched int64
		if err := tx.Model(new(T)).Where(where).Count(&matched).Error; err != nil {
			return err
		}
		if matched == 0 {
			return nil
		}

		assignments := make(map[string]any, len(patch)+1)
		for col, v := range patch {
			assignments[col] = v
		}
		if r.updated != nil {
			assignments[r.updated.DBName] = tx.NowFunc()
		}
		if len(assignments) > 0 {
			if err := tx.Model(new(T)).Where(where).UpdateColumns(assignments).Error; err != nil {
				return err
			}
		}
		return tx.Model(new(T)).Where(where).Find(&out).Error
	})
	if err != nil {
		return nil, err
	}
	return out, nil
}

// DeleteByID removes the identified row and returns what was removed.
func (r *Repository[T]) DeleteByID(ctx context.Context, id int64) ([]T, error) {
	if r.pk == nil {
		return nil, fmt.Errorf("%s has no single identifier", r.schema.Table)
	}
	return r.DeleteWhere(ctx, map[string]any{r.pk.DBName: id})
}

func (r *Repository[T]) DeleteWhere(ctx context.Context, where map[string]any) ([]T, error) {
	if len(where) == 0 {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "delete requires a condition")
	}

	out := make([]T, 0)
	err := r.DB(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Model(new(T)).Where(where).Find(&out).Error; err != nil {
			return err
		}
		if len(out) == 0 {
			return nil
		}
		return tx.Where(where).Delete(new(T)).Error
	})
	if err != nil {
		return nil, err
	}
	return out, nil
}

// DecodeRecord parses a create payload, rejecting unknown attributes and
// payloads missing a required column.
func (r *Repository[T]) DecodeRecord(raw json.RawMessage) (*T, error) {
	missing, err := r.MissingRequired(raw)
	if err != nil {
		return nil, err
	}
	if len(missing) > 0 {
		return nil, pkgerrors.New(pkgerrors.CodeValidation,
			fmt.Sprintf("missing required field(s) for %s: %s", r.schema.Table, strings.Join(missing, ", "))).
			WithDetails(map[string]any{"missing": missing})
	}

	dec := json.NewDecoder(bytes.NewReader(raw))
	dec.DisallowUnknownFields()
	record := new(T)
	if err := dec.Decode(record); err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeValidation, err, fmt.Sprintf("invalid %s payload: %v", r.schema.Table, err))
	}
	return record, nil
}

// MissingRequired lists the JSON attributes of NOT NULL columns without a
// default that raw does not supply.
func (r *Repository[T]) MissingRequired(raw json.RawMessage) ([]string, error) {
	fields, err := decodeObject(raw)
	if err != nil {
		return nil, err
	}

	missing := []string{}
	for _, field := range r.schema.Fields {
		if !required(field) {
			continue
		}
		name := jsonName(field)
		value, ok := fields[name]
		if !ok || isNull(value) {
			missing = append(missing, name)
		}
	}
	sort.Strings(missing)
	return missing, nil
}

// DecodePatch converts a JSON object of attributes into typed column
// assignments. Unknown attributes, identifiers, managed timestamps, nulls on
// NOT NULL columns and out-of-set enum values are rejected.
func (r *Repository[T]) DecodePatch(raw json.RawMessage) (Patch, error) {
	fields, err := decodeObject(raw)
	if err != nil {
		return nil, err
	}

	patch := make(Patch, len(fields))
	for name, value := range fields {
		field, ok := r.byJSON[name]
		if !ok {
			return nil, pkgerrors.New(pkgerrors.CodeValidation, fmt.Sprintf("unknown field %q for %s", name, r.schema.Table))
		}
		if field.PrimaryKey || field.AutoCreateTime > 0 || field.AutoUpdateTime > 0 {
			return nil, pkgerrors.New(pkgerrors.CodeValidation, fmt.Sprintf("field %q is read-only", name))
		}

		if isNull(value) {
			if field.NotNull {
				return nil, pkgerrors.New(pkgerrors.CodeValidation, fmt.Sprintf("field %q cannot be null", name))
			}
			patch[field.DBName] = nil
			continue
		}

		typed := reflect.New(field.FieldType)
		if err := json.Unmarshal(value, typed.Interface()); err != nil {
			return nil, pkgerrors.Wrap(pkgerrors.CodeValidation, err, fmt.Sprintf("invalid value for %q: %v", name, err))
		}
		converted := typed.Elem().Interface()
		if err := checkEnumValue(field, converted); err != nil {
			return nil, err
		}
		if tag := field.Tag.Get("validate"); tag != "" {
			if err := models.ValidateValue(name, converted, tag); err != nil {
				return nil, pkgerrors.Wrap(pkgerrors.CodeValidation, err, err.Error())
			}
		}
		patch[field.DBName] = utcValue(converted)
	}
	return patch, nil
}

var (
	timeType    = reflect.TypeOf(time.Time{})
	timePtrType = reflect.TypeOf(&time.Time{})
)

// toUTC rewrites every time column of record in UTC. SQLite stores times as
// text, so range predicates only hold when all rows share one offset.
func (r *Repository[T]) toUTC(ctx context.Context, record *T) {
	rv := reflect.ValueOf(record).Elem()
	for _, field := range r.times {
		fv := field.ReflectValueOf(ctx, rv)
		if !fv.CanSet() {
			continue
		}
		switch v := fv.Interface().(type) {
		case time.Time:
			if !v.IsZero() {
				fv.Set(reflect.ValueOf(v.UTC()))
			}
		case *time.Time:
			if v != nil {
				utc := v.UTC()
				fv.Set(reflect.ValueOf(&utc))
			}
		}
	}
}

func utcValue(value any) any {
	switch v := value.(type) {
	case time.Time:
		return v.UTC()
	case *time.Time:
		if v == nil {
			return v
		}
		utc := v.UTC()
		return &utc
	}
	return value
}

func checkEnumValue(field *schema.Field, value any) error {
	if value == nil {
		return nil
	}
	candidate := value
	if raw, ok := value.(string); ok && field.FieldType.Kind() == reflect.String && field.FieldType != reflect.TypeOf("") {
		candidate = reflect.ValueOf(raw).Convert(field.FieldType).Interface()
	}
	if v, ok := candidate.(validatable); ok && !v.IsValid() {
		return pkgerrors.New(pkgerrors.CodeValidation,
			fmt.Sprintf("invalid value %v for %s", value, jsonName(field))).
			WithDetails(map[string]any{"field": jsonName(field)})
	}
	return nil
}

func required(field *schema.Field) bool {
	if field.DBName == "" || field.HasDefaultValue {
		return false
	}
	if field.AutoCreateTime > 0 || field.AutoUpdateTime > 0 {
		return false
	}
	return field.NotNull || field.PrimaryKey
}

func jsonName(field *schema.Field) string {
	name := strings.Split(field.Tag.Get("json"), ",")[0]
	if name == "" || name == "-" {
		return field.Name
	}
	return name
}

func decodeObject(raw json.RawMessage) (map[string]json.RawMessage, error) {
	fields := map[string]json.RawMessage{}
	if len(bytes.TrimSpace(raw)) == 0 {
		return fields, nil
	}
	if err := json.Unmarshal(raw, &fields); err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeValidation, err, "payload must be a JSON object")
	}
	return fields, nil
}

func isNull(raw json.RawMessage) bool {
	return bytes.Equal(bytes.TrimSpace(raw), []byte("null"))
}
