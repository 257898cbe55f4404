package domain

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestIsReserveTeam(t *testing.T) {
	assert.True(t, IsReserveTeam("Informática B"))
	assert.True(t, IsReserveTeam("Derecho C"))
	assert.False(t, IsReserveTeam("Informática"))
	assert.False(t, IsReserveTeam("Bellas Artes"))
}

func TestSeniorTeamOf(t *testing.T) {
	assert.Equal(t, "Informática", SeniorTeamOf("Informática B"))
	assert.Equal(t, "Medicina", SeniorTeamOf("Medicina"))
}
