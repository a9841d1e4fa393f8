package engine

import (
	"time"

	"github.com/jakechorley/relief-coordinator/pkg/core/model"
)

func individual(id, name string) model.Volunteer {
	return model.Volunteer{
		ID:               id,
		FullName:         name,
		VolunteerType:    model.VolunteerTypeIndividual,
		Members:          1,
		AssignmentStatus: model.StatusNotAssigned,
	}
}

func team(id, name string, members int) model.Volunteer {
	v := individual(id, name)
	v.VolunteerType = model.VolunteerTypeTeam
	v.Members = members
	return v
}

func assignedTo(v model.Volunteer, operationID string) model.Volunteer {
	v.AssignmentStatus = model.StatusAssigned
	v.OperationID = operationID
	return v
}

func date(s string) time.Time {
	t, err := time.Parse("2006-01-02", s)
	if err != nil {
		panic(err)
	}
	return t
}

func floodOperations() []model.Operation {
	return []model.Operation{
		{ID: "op1", Name: "Flood Relief A", VolunteerCountNeeded: 5, Status: "active"},
		{ID: "op2", Name: "Shelter North", VolunteerCountNeeded: 3, Status: "active"},
	}
}
