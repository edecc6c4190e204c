// Command gen regenerates the typed GORM query layer for the state table.
package main

import (
	"keystore/internal/infra/persistence/model"

	"gorm.io/gen"
)

func main() {
	g := gen.NewGenerator(gen.Config{
		OutPath: "./internal/infra/persistence/postgres/query",
		Mode:    gen.WithDefaultQuery | gen.WithQueryInterface,
	})

	g.ApplyBasic(model.ClientStateModel{})

	g.Execute()
}
