// Package vertex generates code with Gemini models served from Vertex AI.
//
// Vertex AI uses Google Cloud authentication (Application Default
// Credentials) instead of API keys. ADC discovers credentials in the
// following order:
//
//  1. GOOGLE_APPLICATION_CREDENTIALS environment variable (path to service account key)
//  2. gcloud CLI credentials (gcloud auth application-default login)
//  3. Attached service account (GKE Workload Identity, Compute Engine, Cloud Run)
//
// The project comes from the caller or GOOGLE_CLOUD_PROJECT; the location
// from the caller, GOOGLE_CLOUD_LOCATION, or [DefaultLocation].
//
//	client, err := vertex.New(ctx, "my-project", "europe-west4")
//	if err != nil {
//	    log.Fatal(err)
//	}
//	text, err := client.GenerateCode(ctx, task, tools)
package vertex
