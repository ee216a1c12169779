package domain

import (
	"testing"
	"time"

	"github.com/stretchr/testify/suite"
)

type AgeSuite struct {
	suite.Suite
}

func TestAgeSuite(t *testing.T) {
	suite.Run(t, new(AgeSuite))
}

func date(y int, m time.Month, d int) time.Time {
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}

func (s *AgeSuite) TestAgeAt() {
	birth := date(1990, time.October, 18)

	s.Equal(35, AgeAt(birth, date(2026, time.October, 17)), "day before the birthday")
	s.Equal(36, AgeAt(birth, date(2026, time.October, 18)), "on the birthday")
	s.Equal(0, AgeAt(birth, birth))
	s.Equal(0, AgeAt(date(2030, time.January, 1), date(2026, time.January, 1)), "birth date in the future")
}

func (s *AgeSuite) TestAgeAt_LeapDayBirth() {
	birth := date(2004, time.February, 29)

	s.Equal(17, AgeAt(birth, date(2022, time.February, 28)))
	s.Equal(18, AgeAt(birth, date(2022, time.March, 1)))
	s.Equal(20, AgeAt(birth, date(2024, time.February, 29)), "leap year birthday")
}

func (s *AgeSuite) TestAgeAt_UsesTheCalendarDayOfNow() {
	taipei := time.FixedZone("CST", 8*60*60)
	newYork := time.FixedZone("EDT", -4*60*60)
	birth := date(2000, time.June, 1)

	// 07:00 on 1 June in Taipei is still 31 May in UTC.
	s.Equal(18, AgeAt(birth, time.Date(2018, time.June, 1, 7, 0, 0, 0, taipei)))
	s.Equal(17, AgeAt(birth, time.Date(2018, time.May, 31, 23, 59, 0, 0, taipei)))
	// 20:00 on 31 May in New York is already 1 June in UTC.
	s.Equal(17, AgeAt(birth, time.Date(2018, time.May, 31, 20, 0, 0, 0, newYork)))
}

func (s *AgeSuite) TestAgeAt_IgnoresBirthDateZone() {
	taipei := time.FixedZone("CST", 8*60*60)
	birth := time.Date(2000, time.June, 1, 0, 0, 0, 0, taipei)

	s.Equal(18, AgeAt(birth, date(2018, time.June, 1)))
	s.Equal(17, AgeAt(birth, date(2018, time.May, 31)))
}

func (s *AgeSuite) TestIsAdult() {
	birth := date(2008, time.October, 18)
	eighteenth := date(2026, time.October, 18)

	s.True(IsAdult(birth, eighteenth), "18th birthday counts")
	s.False(IsAdult(birth, eighteenth.Add(-time.Second)))
	s.True(IsAdult(date(1950, time.January, 1), eighteenth))
	s.False(IsAdult(eighteenth, eighteenth), "newborn")
}
