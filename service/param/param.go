package param

import (
	"context"
	"encoding/json"
	"fmt"
	"reflect"
	"strings"
	"sync"

	"lending/core"

	"github.com/fox-one/pkg/logger"
	"github.com/fox-one/pkg/property"
	"github.com/sirupsen/logrus"
	"github.com/yiplee/structs"
)

const parametersKey = "protocol_parameters"

// KV string key value storage the parameters snapshot is persisted in
type KV interface {
	Get(ctx context.Context, key string) (string, error)
	Save(ctx context.Context, key, value string) error
}

type propertyKV struct {
	store property.Store
}

// FromProperty keep the parameters in the property store
func FromProperty(store property.Store) KV {
	return &propertyKV{store: store}
}

func (p *propertyKV) Get(ctx context.Context, key string) (string, error) {
	v, err := p.store.Get(ctx, key)
	if err != nil {
		return "", err
	}

	return v.String(), nil
}

func (p *propertyKV) Save(ctx context.Context, key, value string) error {
	return p.store.Save(ctx, key, value)
}

type service struct {
	kv KV
	mu sync.Mutex
}

// New new parameter store
func New(kv KV) core.ParameterStore {
	return &service{kv: kv}
}

// Snapshot current parameters, defaults fill whatever was never set
func (s *service) Snapshot(ctx context.Context) (*core.Parameters, error) {
	v, err := s.kv.Get(ctx, parametersKey)
	if err != nil {
		return nil, err
	}

	params := core.DefaultParameters()
	if v == "" {
		return params, nil
	}

	if err := json.Unmarshal([]byte(v), params); err != nil {
		return nil, fmt.Errorf("decode parameters: %w", err)
	}

	return params, nil
}

// Update apply patch and persist the result, an invalid result is not stored
func (s *service) Update(ctx context.Context, patch *core.ParametersPatch) (*core.Parameters, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	current, err := s.Snapshot(ctx)
	if err != nil {
		return nil, err
	}

	next := patch.Apply(*current)
	if err := next.Validate(); err != nil {
		return nil, err
	}

	data, err := json.Marshal(next)
	if err != nil {
		return nil, err
	}

	if err := s.kv.Save(ctx, parametersKey, string(data)); err != nil {
		return nil, err
	}

	logger.FromContext(ctx).WithFields(patchFields(patch)).Infoln("parameters updated")
	return &next, nil
}

// patchFields the fields set by patch, keyed by json name
func patchFields(patch *core.ParametersPatch) logrus.Fields {
	fields := logrus.Fields{}
	for _, f := range structs.Fields(patch) {
		if f.IsZero() {
			continue
		}

		name := strings.Split(f.Tag("json"), ",")[0]
		fields[name] = reflect.Indirect(reflect.ValueOf(f.Value())).Interface()
	}

	return fields
}
