// Package config reads searchsync settings with Viper.
//
// Example YAML:
//
//	search:
//	  engine: elasticsearch
//	  connection:
//	    host: 127.0.0.1:9200
//	    index: search
//	    sniff_interval: 300000 # milliseconds
//	    sniff_on_start: true
//	    log: error
//	  refresh_on_save: true
//	  entities:
//	    user: [name, email]
//	  filters:
//	    - {type: user, field: status, match: "^deleted$"}
//	store:
//	  driver: mongodb
//	  mongodb:
//	    uri: mongodb://localhost:27017
//
// Connection options are defaulted field by field, so a partial
// connection block keeps the defaults for everything it leaves out.
package config
