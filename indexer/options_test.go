package indexer

import (
	"testing"

	"github.com/google/uuid"
	"github.com/ncobase/searchsync/config"
)

func TestIDGenerators(t *testing.T) {
	if id := idGenerator(config.IDGeneratorNanoID)(); len(id) != 21 {
		t.Errorf("nanoid %q has length %d", id, len(id))
	}
	id := idGenerator("")()
	if _, err := uuid.Parse(id); err != nil {
		t.Errorf("default generator returned %q: %v", id, err)
	}
	if NewUUID() == NewUUID() {
		t.Error("uuids repeat")
	}
}
