// Package ranking scores vehicles under a named policy and selects the
// top-k candidates for induction.
//
// Two policies are available. Baseline strongly prefers high branding tiers
// and uses mileage and stabling distance as secondary terms. WhatIf inverts
// the branding incentive: premium-branded units are penalised and stabling
// distance is rewarded, with operator supplied weights. The two objectives
// differ and are compared side by side by the report package.
package ranking
