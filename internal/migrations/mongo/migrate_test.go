package mongo

import (
	"testing"

	bookingsrepo "clinicslots/internal/bookings/repository"
	doctorsrepo "clinicslots/internal/doctors/repository"
	paymentsrepo "clinicslots/internal/payments/repository"
	treatmentsrepo "clinicslots/internal/treatments/repository"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
)

func uniqueIndex(t *testing.T, models []mongo.IndexModel, name string) bson.D {
	t.Helper()
	for _, m := range models {
		if m.Options == nil || m.Options.Name == nil || *m.Options.Name != name {
			continue
		}
		require.NotNil(t, m.Options.Unique)
		assert.True(t, *m.Options.Unique)
		return m.Keys.(bson.D)
	}
	t.Fatalf("index %s not defined", name)
	return nil
}

func keyNames(keys bson.D) []string {
	names := make([]string, 0, len(keys))
	for _, k := range keys {
		names = append(names, k.Key)
	}
	return names
}

func TestBookingsIndexes_EnforceExclusivity(t *testing.T) {
	slot := uniqueIndex(t, BookingsIndexes, bookingsrepo.IndexTreatmentDateSlot)
	assert.Equal(t, []string{"treatment", "date", "slot"}, keyNames(slot))

	patient := uniqueIndex(t, BookingsIndexes, bookingsrepo.IndexTreatmentDatePatient)
	assert.Equal(t, []string{"treatment", "date", "patient_id"}, keyNames(patient))
}

func TestPaymentsIndexes_OneLedgerEntryPerReservation(t *testing.T) {
	keys := uniqueIndex(t, PaymentsIndexes, paymentsrepo.IndexReservation)
	assert.Equal(t, []string{"reservation_id"}, keyNames(keys))
}

func TestCollections_AllHaveValidators(t *testing.T) {
	defs := Collections()
	for _, name := range []string{treatmentsrepo.CollectionName, bookingsrepo.CollectionName, paymentsrepo.CollectionName, doctorsrepo.CollectionName} {
		def, ok := defs[name]
		require.True(t, ok, name)
		assert.Contains(t, def.Validator, "$jsonSchema", name)
	}
}
