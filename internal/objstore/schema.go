package objstore

// Schema DDL. Statements are idempotent so an existing store is reopened
// unchanged.
const (
	createBlobs = `CREATE TABLE IF NOT EXISTS blobs (
    blob_id TEXT PRIMARY KEY,
    name TEXT NOT NULL,
    blob_type TEXT NOT NULL,
    parent_id TEXT,
    size INTEGER NOT NULL,
    content BLOB,
    created_at TEXT NOT NULL,
    updated_at TEXT NOT NULL
);`

	createBlobMeta = `CREATE TABLE IF NOT EXISTS blob_meta (
    blob_id TEXT NOT NULL,
    key TEXT NOT NULL,
    value TEXT NOT NULL,
    PRIMARY KEY (blob_id, key),
    FOREIGN KEY (blob_id) REFERENCES blobs(blob_id) ON DELETE CASCADE
);`

	createBlobTags = `CREATE TABLE IF NOT EXISTS blob_tags (
    blob_id TEXT NOT NULL,
    tag TEXT NOT NULL,
    PRIMARY KEY (blob_id, tag),
    FOREIGN KEY (blob_id) REFERENCES blobs(blob_id) ON DELETE CASCADE
);`
)

const (
	idxBlobsParent   = `CREATE INDEX IF NOT EXISTS idx_blobs_parent ON blobs(parent_id);`
	idxBlobMetaValue = `CREATE INDEX IF NOT EXISTS idx_blob_meta_key_value ON blob_meta(key, value);`
	idxBlobTagsTag   = `CREATE INDEX IF NOT EXISTS idx_blob_tags_tag ON blob_tags(tag);`
)

// schemaDDL lists all statements in dependency order.
var schemaDDL = []string{
	createBlobs,
	createBlobMeta,
	createBlobTags,
	idxBlobsParent,
	idxBlobMetaValue,
	idxBlobTagsTag,
}
