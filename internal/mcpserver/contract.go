package mcpserver

// ResourceTypesContract describes the resource types and the payload each
// one conventionally carries in its data object.
const ResourceTypesContract = `# Resource Types

Every resource has a name, a type and a free-form JSON object in "data".

## Types

| Type | Meaning  | Conventional data                                |
|------|----------|--------------------------------------------------|
| A    | video    | {"url": "https://.../video.mp4", "duration": 120} |
| B    | document | {"url": "https://.../document.pdf", "pages": 12}  |

## Rules

1. "name" is a non-empty string.
2. "type" is exactly "A" or "B".
3. "data" must be a JSON object. Its keys are not validated.
4. Ids are UUIDs assigned by the server.
5. Updates are partial: omitted fields keep their value, "data" is replaced
   as a whole when given.
6. Deleted resources are hidden from every read and cannot be updated.
`
