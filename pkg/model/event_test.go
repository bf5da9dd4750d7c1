package model_test

import (
	"testing"

	"github.com/m-mizutani/gt"

	"github.com/amal-assist/amal/pkg/model"
)

func TestEventKindValidate(t *testing.T) {
	for _, kind := range []model.EventKind{
		model.EventDetection,
		model.EventClassification,
		model.EventMessage,
		model.EventError,
		model.EventStartup,
		model.EventSessionEnd,
	} {
		gt.NoError(t, kind.Validate())
	}

	gt.Error(t, model.EventKind("telemetry").Validate())
	gt.Error(t, model.EventKind("").Validate())
}

func TestSessionReset(t *testing.T) {
	session := model.NewSession()
	oldID := session.ID

	session.Append(model.RoleUser, "Bonjour")
	session.Append(model.RoleAssistant, "Bonjour !")
	session.Condition = model.ConditionBenign

	session.Reset()

	gt.NotEqual(t, session.ID, oldID)
	gt.A(t, session.Messages).Length(0)
	gt.Equal(t, session.Condition, model.ConditionNone)
}
