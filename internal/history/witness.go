package history

import (
	"encoding/json"

	"gorm.io/datatypes"
	"gorm.io/gorm"

	"github.com/archtest-go/conform/internal/domain"
)

// witnessEntry is the JSON-serializable projection of a domain.Witness;
// UseRelation's UsedObject is flattened to the fields a history report
// needs, since the full domain.UsableObject's TextRange is only
// meaningful against the source tree of the run that produced it.
type witnessEntry struct {
	NodeIndex      int    `json:"node_index"`
	UsedPath       string `json:"used_path"`
	OwnerNodeIndex int    `json:"owner_node_index"`
}

func encodeWitnesses(witnesses []domain.Witness) (datatypes.JSON, error) {
	entries := make([]witnessEntry, 0, len(witnesses))
	for _, w := range witnesses {
		entries = append(entries, witnessEntry{
			NodeIndex:      w.NodeIndex,
			UsedPath:       w.Relation.UsedObject.Path,
			OwnerNodeIndex: w.Relation.OwnerNodeIndex,
		})
	}
	data, err := json.Marshal(entries)
	if err != nil {
		return nil, err
	}
	return datatypes.JSON(data), nil
}

// Recent returns the limit most recent runs recorded against crateRoot,
// newest first.
func Recent(db *gorm.DB, crateRoot string, limit int) ([]Run, error) {
	var runs []Run
	err := db.Where("crate_root = ?", crateRoot).Order("created_at desc").Limit(limit).Find(&runs).Error
	if err != nil {
		return nil, err
	}
	return runs, nil
}
