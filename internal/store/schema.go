package store

// Schema DDL for the resource index.
const (
	createResources = `CREATE TABLE resources (
    resource_id TEXT PRIMARY KEY,
    name TEXT NOT NULL,
    type TEXT NOT NULL,
    format TEXT NOT NULL,
    data TEXT NOT NULL,
    seq INTEGER NOT NULL,
    created_at TEXT NOT NULL
);`

	idxResourcesType     = `CREATE INDEX idx_resources_type ON resources(type, seq);`
	idxResourcesTypeName = `CREATE INDEX idx_resources_type_name ON resources(type, name);`
)

var schemaDDL = []string{createResources, idxResourcesType, idxResourcesTypeName}

// resourceColumns lists the columns in JSONL and SELECT order.
const resourceColumns = "resource_id, name, type, format, data, seq, created_at"
