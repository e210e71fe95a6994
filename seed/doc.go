// Copyright (c) 2025 The reside Authors.
// Use of this source code is governed by the MIT License. See LICENSE.

/*
Package seed bootstraps a residence from a YAML file.

	name: Maple Court
	apartments_count: 3
	builder:
	  id: builder-principal
	  name: ACME Construction
	  contact_info: acme@example.com
	maintenance_expenses:
	  - name: Elevator
	    amount: 1200.50
	apartments:
	  - number: 1
	    name: Garden Flat
	    owner: alice-principal
	applications:
	  - apartment: 1
	    role: chairman

Apply is safe to repeat: an initialized residence is not initialized again
and existing apartments and applications are skipped.
*/
package seed
