// Package repository defines error types that are reused across multiple
// repositories. These sentinel values allow higher layers such as
// handlers to distinguish between different failure scenarios. The
// in-memory store returns the same values so callers never see a driver
// error for a business outcome.
package repository

import (
	"errors"
	"strings"

	"github.com/go-sql-driver/mysql"
)

// ErrSeatTaken is returned when the requested seat already has an
// occupant in the configuration. Callers may retry with another seat.
var ErrSeatTaken = errors.New("seat already taken")

// ErrParticipantSeated is returned when the participant already holds a
// seat in the configuration.
var ErrParticipantSeated = errors.New("participant already seated")

// ErrConfigExists is returned when a trip already has a bus configuration.
var ErrConfigExists = errors.New("bus configuration already exists for trip")

// ErrTokenUsed is returned when a claim token was consumed by an earlier
// request.
var ErrTokenUsed = errors.New("claim token already used")

// ErrTokenExpired is returned when a claim token reached its expiry
// before it could be consumed.
var ErrTokenExpired = errors.New("claim token expired")

var (
	ErrTemplateNotFound   = errors.New("layout template not found")
	ErrConfigNotFound     = errors.New("bus configuration not found")
	ErrAssignmentNotFound = errors.New("seat assignment not found")
	ErrTokenNotFound      = errors.New("claim token not found")
)

// IsNotFound reports whether err is one of the lookup misses above.
func IsNotFound(err error) bool {
	return errors.Is(err, ErrTemplateNotFound) ||
		errors.Is(err, ErrConfigNotFound) ||
		errors.Is(err, ErrAssignmentNotFound) ||
		errors.Is(err, ErrTokenNotFound)
}

const (
	mysqlDuplicateEntry  = 1062
	mysqlNoReferencedRow = 1452
)

// Unique key names from the schema migrations.
const (
	keyAssignmentSeat        = "uq_assignment_seat"
	keyAssignmentParticipant = "uq_assignment_participant"
	keyBusConfigTrip         = "uq_bus_config_trip"
	fkAssignmentConfig       = "fk_assignment_config"
)

// classifyDuplicate maps a MySQL duplicate-key error to the sentinel for
// the violated unique key. Other errors are returned unchanged.
func classifyDuplicate(err error) error {
	var me *mysql.MySQLError
	if !errors.As(err, &me) || me.Number != mysqlDuplicateEntry {
		return err
	}
	switch {
	case strings.Contains(me.Message, keyAssignmentSeat):
		return ErrSeatTaken
	case strings.Contains(me.Message, keyAssignmentParticipant):
		return ErrParticipantSeated
	case strings.Contains(me.Message, keyBusConfigTrip):
		return ErrConfigExists
	}
	return err
}

// classifyForeignKey maps an insert that referenced a missing bus
// configuration (deleted concurrently) to ErrConfigNotFound.
func classifyForeignKey(err error) error {
	var me *mysql.MySQLError
	if !errors.As(err, &me) || me.Number != mysqlNoReferencedRow {
		return err
	}
	if strings.Contains(me.Message, fkAssignmentConfig) {
		return ErrConfigNotFound
	}
	return err
}
