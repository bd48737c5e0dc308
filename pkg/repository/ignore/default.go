package ignore

// DefaultIgnore is the starter .rgitignore written by `rgit init --ignore`.
const DefaultIgnore = `# rgit ignore file
# Paths matching these patterns are skipped by add and status.

# Build outputs
bin/
dist/
build/
*.exe
*.so
*.dylib

# Editors and OS files
.vscode/
.idea/
*.swp
*~
.DS_Store
Thumbs.db

# Temporary files and logs
*.tmp
*.log
.cache/

# Environment and secrets
.env
*.key
*.pem
`
