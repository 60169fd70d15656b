package netezza

import (
	"reflect"
	"strings"

	"gorm.io/gorm"

	"nzdialect/core"
)

// DistributeOnKey is the gorm.DB setting that overrides the distribution
// key of the tables created by the next migrator call:
//
//	db.Set(netezza.DistributeOnKey, core.DistributeOn{"customer_id"}).Migrator().CreateTable(&Order{})
//
// The value may be a core.DistributeOn, a []string or a single string.
const DistributeOnKey = "netezza:distribute_on"

// Distributor is implemented by models that choose their distribution key.
// Returning nil leaves placement to the database default.
type Distributor interface {
	DistributeOn() core.DistributeOn
}

// distributionFor resolves the distribution key of model. The DB setting
// wins over the model method.
func distributionFor(db *gorm.DB, model any, modelType reflect.Type) core.DistributeOn {
	if v, ok := db.Get(DistributeOnKey); ok {
		switch key := v.(type) {
		case core.DistributeOn:
			return key
		case []string:
			return core.DistributeOn(key)
		case string:
			if strings.EqualFold(strings.TrimSpace(key), core.Random) {
				return core.DistributeRandom()
			}
			return core.DistributeOn{key}
		}
	}

	if d, ok := model.(Distributor); ok {
		return d.DistributeOn()
	}
	if modelType != nil {
		if d, ok := reflect.New(modelType).Interface().(Distributor); ok {
			return d.DistributeOn()
		}
	}
	return nil
}
