package models

// Tables lists every model handled by AutoMigrate.
var Tables = []interface{}{
	&Tenant{},
	&ProviderApp{},
	&Message{},
}
