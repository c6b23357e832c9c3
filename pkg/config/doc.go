// Package config loads fixture files that describe adapter options and
// routes, and applies them to an adapter.
//
// A fixture is YAML (.yaml, .yml) or JSON:
//
//	version: "1"
//	name: users-api
//	options:
//	  baseURL: https://api.example.com
//	  delayResponse: 20ms
//	  knownRouteParams:
//	    ":id": '\d+'
//	routes:
//	  - method: get
//	    url: /users/:id
//	    reply:
//	      status: 200
//	      body: {id: 1, name: alice}
//	  - method: post
//	    url: /users
//	    match:
//	      jsonPath:
//	        $.name: alice
//	    reply: {status: 201}
//	    once: true
//	  - method: get
//	    urlPattern: ^/health
//	    passthrough: true
//	  - method: any
//	    glob: /flaky/**
//	    error: network
//
// Environment variables in the form ${NAME} or ${NAME:-default} are expanded
// before parsing.
package config
