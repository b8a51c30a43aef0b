package main

import (
	"bytes"
	"testing"

	"github.com/srg/blonboard/internal/testutils"
	"github.com/srg/blonboard/internal/wifi"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/stretchr/testify/suite"
)

type NetworksTestSuite struct {
	CommandTestSuite
}

func (s *NetworksTestSuite) TestJSONMatchesCharacteristicPayload() {
	stdout, _, err := s.ExecuteCommand("networks", "--static-network", "home,office,home")
	s.Require().NoError(err)

	testutils.NewJSONAsserter(s.T()).WithOptions(testutils.WithIgnoreExtraKeys(false)).Assert(stdout, `{
		"AvailableAdapters": [
			{"Ssid": "home"},
			{"Ssid": "office"},
			{"Ssid": "home"}
		]
	}`)
}

func (s *NetworksTestSuite) TestTable() {
	stdout, _, err := s.ExecuteCommand("networks", "-f", "table", "--static-network", "home")
	s.Require().NoError(err)

	testutils.NewTextAsserter(s.T()).WithOptions(
		testutils.WithTrimSpace(true),
		testutils.WithIgnoreTrailingWhitespace(true),
	).Assert(stdout, `
SSID  BSSID  STRENGTH
----  -----  --------
home  -      -`)
}

func (s *NetworksTestSuite) TestConfigFile() {
	h := testutils.NewTestHelper(s.T())
	path := h.WriteFile("blonboard.yaml", `
wifi:
  backend: static
  static_networks: [garage]
`)

	stdout, _, err := s.ExecuteCommand("networks", "--config", path)
	s.Require().NoError(err)
	s.JSONEq(`{"AvailableAdapters":[{"Ssid":"garage"}]}`, stdout)
}

func (s *NetworksTestSuite) TestEmptyStaticList() {
	stdout, _, err := s.ExecuteCommand("networks", "--wifi-backend", "static")
	s.Require().NoError(err)
	s.JSONEq(`{"AvailableAdapters":[]}`, stdout)
}

func (s *NetworksTestSuite) TestInvalidFormat() {
	_, _, err := s.ExecuteCommand("networks", "-f", "xml")
	s.Require().ErrorIs(err, ErrInvalidFormat)
	s.Contains(err.Error(), "'xml'")
}

func (s *NetworksTestSuite) TestInvalidBackend() {
	_, _, err := s.ExecuteCommand("networks", "--wifi-backend", "iwd")
	s.Require().Error(err)
	s.Contains(err.Error(), "wifi.backend")
}

func TestNetworksTestSuite(t *testing.T) {
	suite.Run(t, new(NetworksTestSuite))
}

func TestDisplayNetworksTable(t *testing.T) {
	var buf bytes.Buffer
	err := displayNetworksTable(&buf, []wifi.Network{
		{SSID: "home", BSSID: "AA:BB:CC:DD:EE:01", Strength: 82},
		{SSID: "", BSSID: "AA:BB:CC:DD:EE:02", Strength: 35},
	})
	require.NoError(t, err)

	testutils.NewTextAsserter(t).WithOptions(
		testutils.WithTrimSpace(true),
		testutils.WithIgnoreTrailingWhitespace(true),
	).Assert(buf.String(), `
SSID      BSSID              STRENGTH
----      -----              --------
home      AA:BB:CC:DD:EE:01  82%
<hidden>  AA:BB:CC:DD:EE:02  35%`)
}

func TestCheckFormat(t *testing.T) {
	assert.NoError(t, checkFormat("json", "json", "table"))
	assert.ErrorIs(t, checkFormat("yaml", "json", "table"), ErrInvalidFormat)
}
