package version

// AppName is the bot's display name used in logs.
const AppName = "RadioDomme"
