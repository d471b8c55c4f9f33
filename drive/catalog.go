package drive

import (
	"context"
	"encoding/json"
	"fmt"
)

// CatalogName is the well-known channel catalog file in the mirror folder.
const CatalogName = "channels.json"

// Catalog loads the list of channel IDs to mirror from a JSON file kept
// in the mirror folder itself, so the channel list can be edited
// without redeploying the job.
type Catalog struct {
	folder Folder

	// Name is the catalog file name. Defaults to CatalogName.
	Name string
}

// NewCatalog creates a catalog loader over the given folder.
func NewCatalog(folder Folder) *Catalog {
	return &Catalog{folder: folder, Name: CatalogName}
}

// Load fetches and parses the catalog. A missing catalog file is not an
// error: it returns found == false, which callers treat as "nothing to
// sync this run".
func (c *Catalog) Load(ctx context.Context) (channels []string, found bool, err error) {
	file, err := c.folder.FindByName(ctx, c.Name)
	if err != nil {
		return nil, false, fmt.Errorf("find %s: %w", c.Name, err)
	}
	if file == nil {
		return nil, false, nil
	}

	body, err := c.folder.Download(ctx, file.ID)
	if err != nil {
		return nil, false, fmt.Errorf("download %s: %w", c.Name, err)
	}
	defer body.Close()

	if err := json.NewDecoder(body).Decode(&channels); err != nil {
		return nil, false, fmt.Errorf("parse %s: %w", c.Name, err)
	}

	return channels, true, nil
}
