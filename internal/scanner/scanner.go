package scanner

import (
	"database/sql"

	model "github.com/beenycool/hypixel-guild-discord-bridge-sub000/internal/models"
	"github.com/beenycool/hypixel-guild-discord-bridge-sub000/internal/utils"
)

// ScanCounterRow scanne une ligne SQL vers un CounterRow
func ScanCounterRow(scanner interface {
	Scan(dest ...interface{}) error
}) (*model.CounterRow, error) {
	var row model.CounterRow

	err := scanner.Scan(&row.BucketTimestamp, &row.Identity, &row.Count)
	if err != nil {
		return nil, err
	}

	return &row, nil
}

// ScanCounterSum scanne une ligne agrégée (identité, total)
func ScanCounterSum(scanner interface {
	Scan(dest ...interface{}) error
}) (*model.CounterSum, error) {
	var sum model.CounterSum

	err := scanner.Scan(&sum.Identity, &sum.TotalCount)
	if err != nil {
		return nil, err
	}

	return &sum, nil
}

// ScanTimeframe scanne une ligne SQL vers un Timeframe
func ScanTimeframe(scanner interface {
	Scan(dest ...interface{}) error
}) (*model.Timeframe, error) {
	var frame model.Timeframe

	err := scanner.Scan(&frame.Identity, &frame.FromTimestamp, &frame.ToTimestamp)
	if err != nil {
		return nil, err
	}

	return &frame, nil
}

// ScanDurationSum scanne une ligne de durée cumulée avec l'identité liée
// Utilise les types sql.Null* et les convertit automatiquement
func ScanDurationSum(scanner interface {
	Scan(dest ...interface{}) error
}) (*model.DurationSum, error) {
	var sum model.DurationSum
	var linked sql.NullString

	err := scanner.Scan(&sum.Identity, &linked, &sum.TotalSeconds)
	if err != nil {
		return nil, err
	}

	// Conversions
	sum.LinkedIdentity = utils.NullStringToPointer(linked)

	return &sum, nil
}
