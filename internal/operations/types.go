package operations

import (
	"time"
)

// Pipeline step identifiers
const (
	StepIDExtract   = "extract"
	StepIDTransform = "transform"
	StepIDLoadCSV   = "load_csv"
	StepIDLoadXLSX  = "load_xlsx"
	StepIDConnect   = "connect"
	StepIDLoadDB    = "load_db"
	StepIDQuery     = "query"
)

// Pipeline step names
const (
	StepNameExtract   = "Extract Ranking"
	StepNameTransform = "Convert Currencies"
	StepNameLoadCSV   = "Save CSV"
	StepNameLoadXLSX  = "Save Workbook"
	StepNameConnect   = "Open Database"
	StepNameLoadDB    = "Load Database Table"
	StepNameQuery     = "Run Queries"
)

// Progress log checkpoints, written in this order on a successful run
const (
	CheckpointPreliminaries = "Preliminaries complete. Initiating ETL process."
	CheckpointExtracted     = "Data extraction complete. Initiating Transformation process."
	CheckpointTransformed   = "Data transformation complete. Initiating loading process."
	CheckpointCSVSaved      = "Data saved to CSV file."
	CheckpointConnected     = "SQL Connection initiated."
	CheckpointDBLoaded      = "Data loaded to Database as table. Running the query"
	CheckpointComplete      = "Process Complete."
)

// Sink names used for load metrics
const (
	SinkCSV      = "csv"
	SinkXLSX     = "xlsx"
	SinkDatabase = "sqlite"
)

// Rate file columns checked before the run starts
var RateFileColumns = []string{"Currency", "Rate"}

// DefaultShutdownTimeout bounds the flush of telemetry after a run
const DefaultShutdownTimeout = 5 * time.Second
