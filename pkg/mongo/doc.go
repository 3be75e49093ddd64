// Package mongo connects to MongoDB with the v2 driver and exposes the
// collection that stores audit records when AUDIT_BACKEND lists mongo.
//
//	client, err := mongo.New(ctx, cfg)
//	if err != nil {
//		return err
//	}
//	writer := audit.NewMongoWriter(mongo.AuditCollection(client, cfg))
package mongo
