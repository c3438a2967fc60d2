package mongo

import (
	"github.com/xraph/grove"

	"github.com/xraph/storefront/state"
	"github.com/xraph/storefront/types"
)

type stateModel struct {
	grove.BaseModel `grove:"table:storefront_state"`
	types.Entity    `bson:",inline"`

	Key     string           `grove:"state_key,pk" bson:"_id"`
	Entries map[string]int64 `grove:"entries"      bson:"entries"`
}

func toStateModel(key string, table state.Table) *stateModel {
	return &stateModel{
		Entity:  types.NewEntity(),
		Key:     key,
		Entries: table.Clone(),
	}
}

func fromStateModel(m *stateModel) state.Table {
	if m.Entries == nil {
		return state.Table{}
	}
	return state.Table(m.Entries).Clone()
}
