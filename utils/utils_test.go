package utils

import (
	"encoding/json"
	"os"
	"strings"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/suite"
	"golang.org/x/crypto/bcrypt"
)

// UtilsTestSuite defines a test suite for utils functions
type UtilsTestSuite struct {
	suite.Suite
	originalEnv map[string]string
}

// SetupTest runs before each test
func (suite *UtilsTestSuite) SetupTest() {
	// Store original environment variables
	suite.originalEnv = make(map[string]string)
	envVars := []string{
		"APP_NAME", "APP_VERSION", "APP_ENV", "APP_HOST", "APP_PORT",
		"JWT_SECRET", "JWT_EXPIRES_IN",
		"IMPERSONATION_TTL", "TRUST_IMPERSONATION_HEADER",
		"IMPERSONATION_OVERRIDE_NAME",
		"AWS_REGION", "AWS_ACCESS_KEY_ID", "AWS_SECRET_ACCESS_KEY",
		"DYNAMODB_ENDPOINT", "DYNAMODB_TABLE_PREFIX",
		"LOG_LEVEL", "LOG_FORMAT",
		"CORS_ORIGINS", "RATE_LIMIT_REQUESTS_PER_MINUTE",
		"BASEPATH",
	}

	for _, envVar := range envVars {
		suite.originalEnv[envVar] = os.Getenv(envVar)
		os.Unsetenv(envVar)
	}
}

// TearDownTest runs after each test
func (suite *UtilsTestSuite) TearDownTest() {
	for envVar, value := range suite.originalEnv {
		if value != "" {
			os.Setenv(envVar, value)
		} else {
			os.Unsetenv(envVar)
		}
	}
}

// TestGetConfig tests the GetConfig function with defaults
func (suite *UtilsTestSuite) TestGetConfig() {
	config, err := GetConfig()
	assert.NoError(suite.T(), err)
	assert.NotNil(suite.T(), config)

	assert.Equal(suite.T(), "BizDesk Backend", config.AppName)
	assert.Equal(suite.T(), "1.0.0", config.AppVersion)
	assert.Equal(suite.T(), "development", config.AppEnv)
	assert.Equal(suite.T(), "0.0.0.0", config.AppHost)
	assert.Equal(suite.T(), "8081", config.AppPort)
}

// TestGetConfigWithEnvironmentVariables tests GetConfig with environment variables
func (suite *UtilsTestSuite) TestGetConfigWithEnvironmentVariables() {
	os.Setenv("APP_NAME", "Test App")
	os.Setenv("APP_VERSION", "2.0.0")
	os.Setenv("APP_ENV", "production")
	os.Setenv("JWT_SECRET", "production-secret")
	os.Setenv("AWS_REGION", "us-west-2")

	config, err := GetConfig()
	assert.NoError(suite.T(), err)
	assert.NotNil(suite.T(), config)

	assert.Equal(suite.T(), "Test App", config.AppName)
	assert.Equal(suite.T(), "2.0.0", config.AppVersion)
	assert.Equal(suite.T(), "production", config.AppEnv)
	assert.Equal(suite.T(), "production-secret", config.JWTSecret)
	assert.Equal(suite.T(), "us-west-2", config.AWSRegion)
}

// TestLoad tests the Load function with defaults
func (suite *UtilsTestSuite) TestLoad() {
	config, err := Load()
	assert.NoError(suite.T(), err)
	assert.NotNil(suite.T(), config)

	assert.Equal(suite.T(), 30*time.Minute, config.JWTExpiresIn)
	assert.Equal(suite.T(), 24*time.Hour, config.ImpersonationTTL)
	assert.False(suite.T(), config.TrustImpersonationHeader)
	assert.False(suite.T(), config.ImpersonationOverrideName)
	assert.Equal(suite.T(), "us-east-1", config.AWSRegion)
	assert.Equal(suite.T(), "dev", config.DynamoDBTablePrefix)
	assert.Equal(suite.T(), "info", config.LogLevel)
	assert.Equal(suite.T(), "json", config.LogFormat)
	assert.Equal(suite.T(), []string{"*"}, config.CORSOrigins)
	assert.Equal(suite.T(), 100, config.RateLimitRequestsPerMinute)
	assert.Equal(suite.T(), "/api/v1", config.BasePath)
	assert.Equal(suite.T(), []string{"users", "companies"}, config.Tables)
}

// TestLoadWithJWTExpirationString tests JWT expiration parsing
func (suite *UtilsTestSuite) TestLoadWithJWTExpirationString() {
	os.Setenv("JWT_EXPIRES_IN", "24h")

	config, err := Load()
	assert.NoError(suite.T(), err)
	assert.Equal(suite.T(), 24*time.Hour, config.JWTExpiresIn)
}

// TestLoadWithImpersonationTTLString tests impersonation TTL parsing
func (suite *UtilsTestSuite) TestLoadWithImpersonationTTLString() {
	os.Setenv("IMPERSONATION_TTL", "1h")

	config, err := Load()
	assert.NoError(suite.T(), err)
	assert.Equal(suite.T(), time.Hour, config.ImpersonationTTL)
}

// TestLoadRejectsDefaultSecretInProduction tests production secret validation
func (suite *UtilsTestSuite) TestLoadRejectsDefaultSecretInProduction() {
	os.Setenv("APP_ENV", "production")

	config, err := Load()
	assert.Error(suite.T(), err)
	assert.Nil(suite.T(), config)
	assert.Contains(suite.T(), err.Error(), "JWT_SECRET")
}

// TestGenerateUUID tests UUID generation
func (suite *UtilsTestSuite) TestGenerateUUID() {
	id := GenerateUUID()
	assert.NotEmpty(suite.T(), id)

	parsed, err := uuid.Parse(id)
	assert.NoError(suite.T(), err)
	assert.Equal(suite.T(), id, parsed.String())

	// Two calls never collide
	assert.NotEqual(suite.T(), id, GenerateUUID())
}

// TestHashPassword tests password hashing
func (suite *UtilsTestSuite) TestHashPassword() {
	hash, err := HashPassword("s3cret-password")
	assert.NoError(suite.T(), err)
	assert.NotEmpty(suite.T(), hash)
	assert.NotEqual(suite.T(), "s3cret-password", hash)
	assert.True(suite.T(), strings.HasPrefix(hash, "$2a$"))

	err = bcrypt.CompareHashAndPassword([]byte(hash), []byte("s3cret-password"))
	assert.NoError(suite.T(), err)
}

// TestCheckPassword tests password verification
func (suite *UtilsTestSuite) TestCheckPassword() {
	hash, err := HashPassword("correct-horse")
	assert.NoError(suite.T(), err)

	assert.True(suite.T(), CheckPassword(hash, "correct-horse"))
	assert.False(suite.T(), CheckPassword(hash, "battery-staple"))
	assert.False(suite.T(), CheckPassword("not-a-hash", "correct-horse"))
}

// TestPrintPrettyJSON tests JSON pretty printing
func (suite *UtilsTestSuite) TestPrintPrettyJSON() {
	out := PrintPrettyJSON(map[string]interface{}{"name": "Acme Corp"})
	assert.Contains(suite.T(), out, "\"name\"")
	assert.Contains(suite.T(), out, "Acme Corp")

	var parsed map[string]interface{}
	assert.NoError(suite.T(), json.Unmarshal([]byte(out), &parsed))
	assert.Equal(suite.T(), "Acme Corp", parsed["name"])
}

func TestUtilsTestSuite(t *testing.T) {
	suite.Run(t, new(UtilsTestSuite))
}
