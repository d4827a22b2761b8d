package config

const (
	// AppName is the name of the application.
	AppName = "supportdesk"

	// EnvBotToken is the environment variable for the bot token.
	EnvBotToken = `BOT_TOKEN`

	// EnvApplicationId is the environment variable for the application ID.
	EnvApplicationId = `APPLICATION_ID`

	// EnvMongoUri is the environment variable for the MongoDB URI.
	EnvMongoUri = `MONGO_URI`

	// EnvMonitoringPort is the environment variable for the monitoring port.
	EnvMonitoringPort = `MONITORING_PORT`

	// EnvStoreDriver is the environment variable selecting the store backend.
	EnvStoreDriver = `STORE_DRIVER`

	// EnvDatabaseDsn is the environment variable for the SQL data source name.
	EnvDatabaseDsn = `DATABASE_DSN`

	// EnvLogLevel is the environment variable for the log level.
	EnvLogLevel = `LOG_LEVEL`

	// EnvConfigFile is the environment variable for the path of the YAML tunables file.
	EnvConfigFile = `CONFIG_FILE`
)

const (
	// DriverMongo stores everything in MongoDB.
	DriverMongo = "mongo"

	// DriverPostgres stores everything in PostgreSQL.
	DriverPostgres = "postgres"

	// DriverSqlite stores everything in an embedded SQLite database.
	DriverSqlite = "sqlite"
)

const (
	defaultMonitoringPort = "8080"
	defaultLogLevel       = "info"
	defaultMongoDatabase  = AppName
)
