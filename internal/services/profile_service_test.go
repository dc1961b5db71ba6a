package services_test

import (
	"testing"

	"github.com/mycontracts/backend/internal/services"
	"github.com/stretchr/testify/suite"
)

type ProfileServiceTestSuite struct {
	suite.Suite
	db       services.DBService
	profiles services.ProfileService
}

func (suite *ProfileServiceTestSuite) SetupTest() {
	db, err := services.NewSqliteDBService(":memory:")
	suite.Require().NoError(err)
	suite.db = db
	suite.profiles = services.NewProfileService(db.GetDB())
}

func (suite *ProfileServiceTestSuite) TearDownTest() {
	if suite.db != nil {
		suite.db.Close()
	}
}

func (suite *ProfileServiceTestSuite) TestGetOrCreateProfileCreatesOnFirstAccess() {
	profile, err := suite.profiles.GetOrCreateProfile("user-1")
	suite.Require().NoError(err)
	suite.Equal("user-1", profile.UserID)
	suite.Empty(profile.DisplayName)

	again, err := suite.profiles.GetOrCreateProfile("user-1")
	suite.Require().NoError(err)
	suite.Equal(profile.CreatedAt.Unix(), again.CreatedAt.Unix())
}

func (suite *ProfileServiceTestSuite) TestUpdateProfileOverwritesFields() {
	_, err := suite.profiles.GetOrCreateProfile("user-1")
	suite.Require().NoError(err)

	updated, err := suite.profiles.UpdateProfile("user-1", services.ProfileUpdate{
		DisplayName:      "Ops",
		WalletAddress:    "0x9965507D1a55bcC2695C58ba16FB37d819B0A4dc",
		Bio:              "deploys things",
		PreferredNetwork: "sepolia",
	})
	suite.Require().NoError(err)
	suite.Equal("Ops", updated.DisplayName)
	suite.Equal("sepolia", updated.PreferredNetwork)

	// Clearing a field sticks.
	cleared, err := suite.profiles.UpdateProfile("user-1", services.ProfileUpdate{
		DisplayName: "Ops",
	})
	suite.Require().NoError(err)
	suite.Empty(cleared.WalletAddress)
}

func TestProfileServiceTestSuite(t *testing.T) {
	suite.Run(t, new(ProfileServiceTestSuite))
}
