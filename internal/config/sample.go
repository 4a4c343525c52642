package config

// SampleConfig returns a fully documented configuration file
func SampleConfig() string {
	return `# LeafScan configuration
version: "1.0"

# Remote prediction service. Receives a multipart POST with the image in
# field_name and answers {"predicted_disease", "confidence", "treatment"}.
endpoint:
  url: "http://localhost:5000/api/detect-disease"
  timeout: 30s
  field_name: "file"

upload:
  # Files larger than this many bytes are rejected before any request
  max_file_size: 5242880
  # Simulated progress: progress_step percent every progress_interval
  progress_step: 10
  progress_interval: 200ms

ui:
  celebration_duration: 5s
  preview_size: 256
  notice_duration: 3s

storage:
  # Durable preferences (dark mode)
  prefs_path: "~/.config/leafscan/prefs.yaml"

report:
  # file: write crop_disease_report.txt into dir
  # s3:   upload it to an S3 compatible bucket
  sink: "file"
  dir: "."
  s3:
    endpoint: ""
    region: "us-east-1"
    bucket: "leafscan-reports"
    prefix: ""
    access_key: ""
    secret_key: ""
    use_ssl: true

output:
  color_mode: "auto"   # auto|always|never
  verbose: false
  log_file: "leafscan.log"
`
}

// MinimalSampleConfig returns a compact configuration with essential settings
func MinimalSampleConfig() string {
	return `version: "1.0"
endpoint:
  url: "http://localhost:5000/api/detect-disease"
report:
  sink: "file"
  dir: "."
`
}
