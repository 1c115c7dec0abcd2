// Copyright 2026 CICD AI Toolkit. All rights reserved.
//
// Licensed under the Apache License, Version 2.0 (the "License");

package document

import (
	"strings"

	"github.com/cicd-ai-toolkit/notepack/pkg/source"
)

// Defang makes an indicator safe to display: dots become "[.]" for IPs,
// domains and URLs, and a URL's http scheme becomes hxxp.
func Defang(value string, t source.EntityType) string {
	switch t {
	case source.EntityIP, source.EntityDomain:
		return strings.ReplaceAll(value, ".", "[.]")
	case source.EntityURL:
		v := strings.ReplaceAll(value, ".", "[.]")
		if len(v) >= 4 && strings.EqualFold(v[:4], "http") {
			v = "hxxp" + v[4:]
		}
		return v
	default:
		return value
	}
}
