package providerRepo

import (
	"fmt"
	"sort"
	"time"

	"go.mongodb.org/mongo-driver/bson"
)

// availableProviderIDs returns ids of providers with an available offering of
// the package.
func (r *MongoProviderRepo) availableProviderIDs(packageID string) (map[string]bool, error) {
	ctx, cancel := newContext(5 * time.Second)
	defer cancel()

	filter := bson.M{"packageId": packageID, "available": true}
	raw, err := r.services.Distinct(ctx, "providerId", filter)
	if err != nil {
		return nil, fmt.Errorf("failed to query offerings for package %s: %w", packageID, err)
	}

	ids := make(map[string]bool, len(raw))
	for _, v := range raw {
		if id, ok := v.(string); ok {
			ids[id] = true
		}
	}
	return ids, nil
}

// activeFilter keeps only ids belonging to active providers and returns them
// sorted ascending so first-eligible selection is deterministic.
func (r *MongoProviderRepo) activeFilter(ids map[string]bool) ([]string, error) {
	if len(ids) == 0 {
		return nil, nil
	}

	ctx, cancel := newContext(5 * time.Second)
	defer cancel()

	candidates := make([]string, 0, len(ids))
	for id := range ids {
		candidates = append(candidates, id)
	}

	filter := bson.M{"id": bson.M{"$in": candidates}, "active": true}
	raw, err := r.providers.Distinct(ctx, "id", filter)
	if err != nil {
		return nil, fmt.Errorf("failed to filter active providers: %w", err)
	}

	var eligible []string
	for _, v := range raw {
		if id, ok := v.(string); ok {
			eligible = append(eligible, id)
		}
	}
	sort.Strings(eligible)
	return eligible, nil
}

// EligibleForPackage returns ids of active providers offering the exact package.
func (r *MongoProviderRepo) EligibleForPackage(packageID string) ([]string, error) {
	ids, err := r.availableProviderIDs(packageID)
	if err != nil {
		return nil, err
	}
	return r.activeFilter(ids)
}

// EligibleForBundle returns ids of active providers offering every included
// package. An empty include list matches no provider.
func (r *MongoProviderRepo) EligibleForBundle(includedPackageIDs []string) ([]string, error) {
	if len(includedPackageIDs) == 0 {
		return nil, nil
	}

	var covering map[string]bool
	for _, pkgID := range includedPackageIDs {
		ids, err := r.availableProviderIDs(pkgID)
		if err != nil {
			return nil, err
		}
		if covering == nil {
			covering = ids
			continue
		}
		for id := range covering {
			if !ids[id] {
				delete(covering, id)
			}
		}
		if len(covering) == 0 {
			return nil, nil
		}
	}
	return r.activeFilter(covering)
}
