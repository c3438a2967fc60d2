package postgres

import (
	"encoding/json"

	"github.com/xraph/grove"

	"github.com/xraph/storefront/state"
	"github.com/xraph/storefront/types"
)

type stateModel struct {
	grove.BaseModel `grove:"table:storefront_state"`
	types.Entity

	Key     string          `grove:"state_key,pk"`
	Entries json.RawMessage `grove:"entries,type:jsonb"`
}

func toStateModel(key string, table state.Table) (*stateModel, error) {
	entries, err := json.Marshal(table)
	if err != nil {
		return nil, err
	}

	return &stateModel{
		Entity:  types.NewEntity(),
		Key:     key,
		Entries: entries,
	}, nil
}

func fromStateModel(m *stateModel) (state.Table, error) {
	table := state.Table{}
	if len(m.Entries) > 0 {
		if err := json.Unmarshal(m.Entries, &table); err != nil {
			return nil, err
		}
	}
	return table, nil
}
