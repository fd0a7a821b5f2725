package journal

import (
	"github.com/BurntSushi/migration"
	"github.com/cyclopcam/logs"
	"github.com/cyclopcam/solo2yolo/pkg/dbh"
)

func Migrations(log logs.Log) []migration.Migrator {
	migs := []migration.Migrator{}
	idx := 0

	migs = append(migs, dbh.MakeMigrationFromSQL(log, &idx,
		`
		CREATE TABLE run(
			id TEXT PRIMARY KEY,
			started_at INT NOT NULL,
			finished_at INT,
			solo_path TEXT NOT NULL,
			output_path TEXT NOT NULL,
			task TEXT NOT NULL,
			frames_found INT NOT NULL DEFAULT 0,
			frames_converted INT NOT NULL DEFAULT 0,
			frames_skipped INT NOT NULL DEFAULT 0,
			status TEXT NOT NULL,
			error TEXT
		);

		CREATE TABLE skipped_frame(
			id INTEGER PRIMARY KEY,
			run_id TEXT NOT NULL,
			frame_index INT NOT NULL,
			path TEXT NOT NULL,
			reason TEXT NOT NULL
		);
		CREATE INDEX idx_skipped_frame_run_id ON skipped_frame (run_id);
	`))

	migs = append(migs, dbh.MakeMigrationFromSQL(log, &idx,
		`
		ALTER TABLE run ADD COLUMN yolo_root TEXT;
	`))

	return migs
}
