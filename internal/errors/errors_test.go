package errors_test

import (
	"fmt"
	"testing"

	"github.com/stretchr/testify/suite"

	"github.com/KirkDiggler/rpg-protocol/internal/errors"
)

type ErrorsTestSuite struct {
	suite.Suite
}

func TestErrorsSuite(t *testing.T) {
	suite.Run(t, new(ErrorsTestSuite))
}

func (s *ErrorsTestSuite) TestNewError() {
	testCases := []struct {
		name     string
		code     errors.Code
		message  string
		expected string
	}{
		{
			name:     "not found error",
			code:     errors.CodeNotFound,
			message:  "stat not found",
			expected: "NOT_FOUND: stat not found",
		},
		{
			name:     "cycle error",
			code:     errors.CodeCycle,
			message:  "derivation would close a cycle",
			expected: "CYCLE: derivation would close a cycle",
		},
		{
			name:     "invalid table error",
			code:     errors.CodeInvalidTable,
			message:  "threshold sequences mismatched",
			expected: "INVALID_TABLE: threshold sequences mismatched",
		},
	}

	for _, tc := range testCases {
		s.Run(tc.name, func() {
			err := errors.New(tc.code, tc.message)
			s.Assert().Equal(tc.expected, err.Error())
			s.Assert().Equal(tc.code, err.Code)
			s.Assert().Equal(tc.message, err.Message)
		})
	}
}

func (s *ErrorsTestSuite) TestErrorWithMeta() {
	err := errors.NotFound("stat not found").
		WithMeta("stat", "stamina").
		WithMeta("graph", "session-1")

	s.Assert().Equal("stamina", err.Meta["stat"])
	s.Assert().Equal("session-1", err.Meta["graph"])
}

func (s *ErrorsTestSuite) TestWrap() {
	baseErr := fmt.Errorf("file unreadable")
	wrapped := errors.Wrap(baseErr, "failed to load definition")

	s.Assert().Equal(errors.CodeInternal, wrapped.Code)
	s.Assert().Equal("failed to load definition", wrapped.Message)
	s.Assert().Equal(baseErr, wrapped.Unwrap())
}

func (s *ErrorsTestSuite) TestWrapPreservesCode() {
	base := errors.AlreadyExists("stat already registered")
	wrapped := errors.Wrap(base, "failed to register stat")

	s.Assert().Equal(errors.CodeAlreadyExists, wrapped.Code)
	s.Assert().True(errors.IsAlreadyExists(wrapped))
}

func (s *ErrorsTestSuite) TestGetCode() {
	s.Assert().Equal(errors.CodeOK, errors.GetCode(nil))
	s.Assert().Equal(errors.CodeCycle, errors.GetCode(errors.Cycle("loop")))
	s.Assert().Equal(errors.CodeInternal, errors.GetCode(fmt.Errorf("plain error")))
}

func (s *ErrorsTestSuite) TestCodeCheckers() {
	s.Assert().True(errors.IsNotFound(errors.NotFoundf("stat %q not registered", "mana")))
	s.Assert().True(errors.IsCycle(errors.Cyclef("%s depends on itself", "curhp")))
	s.Assert().True(errors.IsInvalidTable(errors.InvalidTable("thresholds not increasing")))
	s.Assert().False(errors.IsNotFound(errors.Internal("boom")))
}

func (s *ErrorsTestSuite) TestValidationBuilder() {
	err := errors.NewValidationBuilder().
		RequiredField("name").
		Fieldf("experience", "must start at %d", 0).
		Build()

	s.Require().Error(err)
	s.Assert().Equal(errors.CodeInvalidArgument, errors.GetCode(err))
	s.Assert().Contains(err.Error(), "validation failed")

	none := errors.NewValidationBuilder().Build()
	s.Assert().NoError(none)
}
