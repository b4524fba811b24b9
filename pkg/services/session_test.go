package services

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"hotel-receipt/pkg/models"
)

func TestNewSession(t *testing.T) {
	s := NewSession()
	assert.Equal(t, models.ReceiptForm{}, s.Form())
	assert.Empty(t, s.Errors())
	assert.True(t, s.SubmitVisible())
}

func TestSessionSetStoresVerbatim(t *testing.T) {
	s := NewSession()
	require.NoError(t, s.Set(models.FieldNombre, "  Ana "))
	assert.Equal(t, "  Ana ", s.Form().Nombre)
}

func TestSessionSetUnknownField(t *testing.T) {
	err := NewSession().Set(models.Field("email"), "x")
	assert.ErrorIs(t, err, ErrUnknownField)
}

func TestSessionSetClearsOnlyThatError(t *testing.T) {
	s := NewSession()
	errs := s.validate()
	require.Len(t, errs, len(models.Fields))

	require.NoError(t, s.Set(models.FieldApellido, "L"))

	got := s.Errors()
	assert.NotContains(t, got, models.FieldApellido)
	assert.Len(t, got, len(models.Fields)-1)
	assert.Equal(t, MsgRequired, got[models.FieldNombre])
}

func TestSessionValidateOverwrites(t *testing.T) {
	s := NewSession()
	s.validate()
	s.Fill(validForm())
	require.NoError(t, s.Set(models.FieldCelular, "123"))

	assert.Equal(t, models.ErrorMap{models.FieldCelular: MsgPhoneLength}, s.validate())
	assert.Equal(t, models.ErrorMap{models.FieldCelular: MsgPhoneLength}, s.Errors())
}

func TestSessionErrorsIsCopy(t *testing.T) {
	s := NewSession()
	s.validate()
	errs := s.Errors()
	delete(errs, models.FieldNombre)
	assert.Contains(t, s.Errors(), models.FieldNombre)
}

func TestSessionHideSubmit(t *testing.T) {
	s := NewSession()
	restore := s.hideSubmit()
	assert.False(t, s.SubmitVisible())
	restore()
	assert.True(t, s.SubmitVisible())
}

func TestSessionBegin(t *testing.T) {
	s := NewSession()
	done, err := s.begin()
	require.NoError(t, err)

	_, err = s.begin()
	assert.ErrorIs(t, err, ErrSubmitInFlight)

	done()
	done2, err := s.begin()
	require.NoError(t, err)
	done2()
}
